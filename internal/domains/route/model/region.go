package model

import "strings"

const (
	MainRegionDar      = "DAR"
	MainRegionZanzibar = "ZANZIBAR"
	MainRegionMainland = "MAINLAND"
)

const (
	LabelDarAirport       = "Dar es Salaam Airport"
	LabelZanzibarAirport  = "Zanzibar Airport"
	LabelZanzibarNungwi   = "Zanzibar Nungwi"
	LabelZanzibarSeacliff = "Zanzibar Seacliff"
	LabelZanzibarPaje     = "Zanzibar Paje"
	LabelPaje             = "Paje"

	labelDarFragment      = "Dar es Salaam"
	labelZanzibarFragment = "Zanzibar"
)

// locationAliases maps operator location codes to canonical route labels.
// Canonical labels resolve to themselves.
var locationAliases = map[string]string{
	"JNIA":     LabelDarAirport,
	"DAR":      LabelDarAirport,
	"AAKI":     LabelZanzibarAirport,
	"ZNZ":      LabelZanzibarAirport,
	"Nungwi":   LabelZanzibarNungwi,
	"Seacliff": LabelZanzibarSeacliff,
	"Paje":     LabelPaje,

	LabelDarAirport:       LabelDarAirport,
	LabelZanzibarAirport:  LabelZanzibarAirport,
	LabelZanzibarNungwi:   LabelZanzibarNungwi,
	LabelZanzibarSeacliff: LabelZanzibarSeacliff,
	LabelZanzibarPaje:     LabelZanzibarPaje,
}

var zanzibarLabels = map[string]struct{}{
	LabelZanzibarAirport:  {},
	LabelZanzibarNungwi:   {},
	LabelZanzibarSeacliff: {},
	LabelZanzibarPaje:     {},
	LabelPaje:             {},
}

// ResolveLabel returns the canonical label for a location code. Unknown codes are returned trimmed.
func ResolveLabel(code string) string {
	code = strings.TrimSpace(code)

	if label, ok := locationAliases[code]; ok {
		return label
	}

	return code
}

// MainRegionFor classifies a route by its origin label.
func MainRegionFor(label string) string {
	switch {
	case label == "":
		return MainRegionMainland
	case label == LabelDarAirport:
		return MainRegionDar
	case isZanzibar(label):
		return MainRegionZanzibar
	case strings.Contains(label, labelDarFragment):
		return MainRegionDar
	case strings.Contains(label, labelZanzibarFragment):
		return MainRegionZanzibar
	default:
		return MainRegionMainland
	}
}

func isZanzibar(label string) bool {
	_, ok := zanzibarLabels[label]

	return ok
}
