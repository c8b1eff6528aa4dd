// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"charter/internal/modules/pricing"
)

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors map[string][]string `json:"errors"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeValidationErrors(c *gin.Context, errs map[string][]string) {
	writeJSON(c, http.StatusBadRequest, validationResponse{Errors: errs})
}

// writePricingError picks the status from the error kind: caller mistakes are 422,
// broken tariff data and everything else are 500.
func writePricingError(c *gin.Context, err error) {
	switch pricing.KindOf(err) {
	case pricing.KindClient:
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case pricing.KindConfig:
		writeError(c, http.StatusInternalServerError, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
