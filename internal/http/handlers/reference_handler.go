// README: Read-only listings of the loaded reference data.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"charter/internal/refdata"
)

// Catalog exposes what the reference data store has loaded.
type Catalog interface {
	AircraftList() []refdata.Aircraft
	AirportCodes() []string
}

type ReferenceHandler struct {
	catalog Catalog
}

func NewReferenceHandler(catalog Catalog) *ReferenceHandler {
	return &ReferenceHandler{catalog: catalog}
}

func (h *ReferenceHandler) Aircraft(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"aircraft": h.catalog.AircraftList()})
}

func (h *ReferenceHandler) Airports(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"airports": h.catalog.AirportCodes()})
}
