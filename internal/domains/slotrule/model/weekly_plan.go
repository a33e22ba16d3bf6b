package model

const Preset5HFSA = "5H-FSA"

// Leg is one departure of a weekly operations plan. DayOfWeek uses 0 = Monday.
type Leg struct {
	DayOfWeek       int    `json:"day_of_week"      validate:"min=0,max=6"`
	FromCode        string `json:"from_code"        validate:"required,max=120"`
	ToCode          string `json:"to_code"          validate:"required,max=120"`
	Start           string `json:"start"            validate:"required,hhmm"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=1,max=300"`
}

var presets = map[string][]Leg{
	Preset5HFSA: {
		{DayOfWeek: 0, FromCode: "JNIA", ToCode: "AAKI", Start: "09:30", DurationMinutes: 40},
		{DayOfWeek: 0, FromCode: "AAKI", ToCode: "JNIA", Start: "13:40", DurationMinutes: 40},
		{DayOfWeek: 4, FromCode: "JNIA", ToCode: "AAKI", Start: "12:00", DurationMinutes: 40},
		{DayOfWeek: 4, FromCode: "AAKI", ToCode: "Nungwi", Start: "13:00", DurationMinutes: 30},
		{DayOfWeek: 4, FromCode: "Nungwi", ToCode: "Seacliff", Start: "15:35", DurationMinutes: 50},
		{DayOfWeek: 4, FromCode: "Seacliff", ToCode: "AAKI", Start: "16:40", DurationMinutes: 40},
		{DayOfWeek: 4, FromCode: "AAKI", ToCode: "JNIA", Start: "17:40", DurationMinutes: 40},
		{DayOfWeek: 5, FromCode: "JNIA", ToCode: "Seacliff", Start: "11:10", DurationMinutes: 15},
		{DayOfWeek: 5, FromCode: "Seacliff", ToCode: "AAKI", Start: "12:50", DurationMinutes: 40},
		{DayOfWeek: 6, FromCode: "AAKI", ToCode: "Paje", Start: "14:25", DurationMinutes: 25},
		{DayOfWeek: 6, FromCode: "Paje", ToCode: "Nungwi", Start: "15:40", DurationMinutes: 25},
		{DayOfWeek: 6, FromCode: "Nungwi", ToCode: "JNIA", Start: "17:35", DurationMinutes: 60},
	},
}

// PresetLegs returns a copy of the named plan, or nil when it is unknown.
func PresetLegs(planID string) []Leg {
	legs, ok := presets[planID]
	if !ok {
		return nil
	}

	return append([]Leg(nil), legs...)
}

func Presets() map[string][]Leg {
	out := make(map[string][]Leg, len(presets))
	for id := range presets {
		out[id] = PresetLegs(id)
	}

	return out
}
