// README: Loads reference documents (JSON, YAML, aircraft CSV) from a data directory.
package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"gopkg.in/yaml.v3"
)

const (
	docAircraft = "aircrafts"
	docAirports = "pricing_airports"
	docOps      = "ops"
	docMarket   = "market"
)

var (
	structuredExts = []string{".json", ".yaml", ".yml"}
	aircraftExts   = []string{".json", ".yaml", ".yml", ".csv"}
)

type opsDocument struct {
	CrewCostPerHr    *float64 `json:"crew_cost_per_hr" yaml:"crew_cost_per_hr"`
	InsurancePerHr   *float64 `json:"insurance_per_hr" yaml:"insurance_per_hr"`
	MaintenancePerHr *float64 `json:"maintenance_per_hr" yaml:"maintenance_per_hr"`
}

func (d opsDocument) rates() (OpsRates, error) {
	if d.CrewCostPerHr == nil || d.InsurancePerHr == nil || d.MaintenancePerHr == nil {
		return OpsRates{}, fmt.Errorf("%w: ops requires crew_cost_per_hr, insurance_per_hr and maintenance_per_hr", ErrInvalidReference)
	}
	return OpsRates{
		CrewCostPerHr:    *d.CrewCostPerHr,
		InsurancePerHr:   *d.InsurancePerHr,
		MaintenancePerHr: *d.MaintenancePerHr,
	}, nil
}

type marketDocument struct {
	DemandFactor *float64 `json:"demand_factor" yaml:"demand_factor"`
}

func (d marketDocument) market() Market {
	if d.DemandFactor == nil {
		return Market{DemandFactor: DefaultDemandFactor}
	}
	return Market{DemandFactor: *d.DemandFactor}
}

// LoadFiles reads the four reference documents from dir and builds a Store.
// Each document is looked up as <name>.json, then .yaml/.yml; the aircraft list
// may also be a CSV file with an id,model,hourly_rate[,mtow_kg] header.
func LoadFiles(dir string) (*Store, error) {
	var t Tables

	if err := loadDocument(dir, docAircraft, aircraftExts, &t.Aircraft); err != nil {
		return nil, err
	}
	if err := loadDocument(dir, docAirports, structuredExts, &t.Tariffs); err != nil {
		return nil, err
	}

	var ops opsDocument
	if err := loadDocument(dir, docOps, structuredExts, &ops); err != nil {
		return nil, err
	}
	rates, err := ops.rates()
	if err != nil {
		return nil, err
	}
	t.Ops = rates

	var market marketDocument
	if err := loadDocument(dir, docMarket, structuredExts, &market); err != nil {
		return nil, err
	}
	t.Market = market.market()

	return NewStore(t)
}

func loadDocument(dir, name string, exts []string, v any) error {
	path, ext, err := findDocument(dir, name, exts)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := decode(ext, data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedDocument, path, err)
	}
	return nil
}

func findDocument(dir, name string, exts []string) (string, string, error) {
	for _, ext := range exts {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, ext, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrMissingDocument, filepath.Join(dir, name))
}

func decode(ext string, data []byte, v any) error {
	switch ext {
	case ".json":
		return json.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	case ".csv":
		return csvutil.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported extension %q", ext)
	}
}
