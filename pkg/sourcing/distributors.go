package sourcing

import "calder-eda/fabcost/pkg/bom"

// EUDistributors are distributors that stock from EU/UK warehouses.
var EUDistributors = map[string]bool{
	"farnell":       true,
	"rs_components": true,
	"mouser_eu":     true,
	"digikey_eu":    true,
	"conrad":        true,
	"tme":           true,
	"reichelt":      true,
	"buerklin":      true,
	"distrelec":     true,
}

// GlobalDistributors are non-EU distributors.
var GlobalDistributors = map[string]bool{
	"digikey":            true,
	"mouser":             true,
	"arrow":              true,
	"avnet":              true,
	"future_electronics": true,
	"newark":             true,
}

var distributorDisplayNames = map[string]string{
	"farnell":            "Farnell",
	"rs_components":      "RS Components",
	"mouser_eu":          "Mouser (EU)",
	"digikey_eu":         "Digi-Key (EU)",
	"conrad":             "Conrad Electronic",
	"tme":                "TME",
	"reichelt":           "Reichelt",
	"buerklin":           "Bürklin",
	"distrelec":          "Distrelec",
	"digikey":            "Digi-Key",
	"mouser":             "Mouser",
	"arrow":              "Arrow Electronics",
	"avnet":              "Avnet",
	"future_electronics": "Future Electronics",
	"newark":             "Newark",
}

// euAvailability is the probability (0 to 1) that a component in each
// category can be sourced from an EU/UK distributor.
var euAvailability = map[bom.Category]float64{
	bom.CategoryResistor:    0.98,
	bom.CategoryCapacitor:   0.97,
	bom.CategoryInductor:    0.95,
	bom.CategoryConnector:   0.92,
	bom.CategoryDiode:       0.93,
	bom.CategoryTransistor:  0.92,
	bom.CategoryLED:         0.88,
	bom.CategoryCrystal:     0.85,
	bom.CategorySwitch:      0.90,
	bom.CategoryRelay:       0.87,
	bom.CategoryFuse:        0.92,
	bom.CategoryIC:          0.80,
	bom.CategoryTransformer: 0.72,
	bom.CategoryOther:       0.68,
	bom.CategoryUnknown:     0.65,
}

// euPremium is the typical EU price markup over global pricing per
// category. 0.08 means +8 percent.
var euPremium = map[bom.Category]float64{
	bom.CategoryResistor:    0.06,
	bom.CategoryCapacitor:   0.07,
	bom.CategoryInductor:    0.10,
	bom.CategoryConnector:   0.09,
	bom.CategoryDiode:       0.08,
	bom.CategoryTransistor:  0.09,
	bom.CategoryLED:         0.11,
	bom.CategoryCrystal:     0.12,
	bom.CategorySwitch:      0.10,
	bom.CategoryRelay:       0.12,
	bom.CategoryFuse:        0.08,
	bom.CategoryIC:          0.13,
	bom.CategoryTransformer: 0.15,
	bom.CategoryOther:       0.14,
	bom.CategoryUnknown:     0.15,
}

const (
	defaultEUAvailability = 0.65
	defaultEUPremium      = 0.12
)
