package dto

import (
	"charter/internal/domains/slotrule/model"
	"charter/shared"
	gDto "charter/shared/dto"
	gModel "charter/shared/model"
	"charter/shared/timezone"

	"github.com/google/uuid"
)

type CreateSlotRuleRequest struct {
	RouteID         string `json:"route_id"         validate:"required,uuid"`
	DaysOfWeek      string `json:"days_of_week"     validate:"weekdays"`
	Times           string `json:"times"            validate:"required,hhmmlist"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gt=0,max=600"`
	PriceUSD        int    `json:"price_usd"        validate:"min=0"`
	PriceTZS        *int   `json:"price_tzs"        validate:"omitempty,min=0"`
	Capacity        int    `json:"capacity"         validate:"omitempty,gt=0"`
	FlightNoPrefix  string `json:"flight_no_prefix" validate:"omitempty,max=20"`
	Cabin           string `json:"cabin"            validate:"omitempty,max=30"`
	Active          *bool  `json:"active"`
	HorizonDays     int    `json:"horizon_days"     validate:"omitempty,gt=0,max=366"`
}

func (c *CreateSlotRuleRequest) ToModel(user string) model.SlotRule {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	days := c.DaysOfWeek
	if days == "" {
		days = model.DefaultDays
	}

	return model.SlotRule{
		ID:              uuid.NewString(),
		RouteID:         c.RouteID,
		DaysOfWeek:      days,
		Times:           c.Times,
		DurationMinutes: orDefault(c.DurationMinutes, model.DefaultDuration),
		PriceUSD:        c.PriceUSD,
		PriceTZS:        c.PriceTZS,
		Capacity:        orDefault(c.Capacity, model.DefaultCapacity),
		FlightNoPrefix:  orDefaultString(c.FlightNoPrefix, model.DefaultPrefix),
		Cabin:           orDefaultString(c.Cabin, model.DefaultCabin),
		Active:          active,
		HorizonDays:     orDefault(c.HorizonDays, model.DefaultHorizon),
		Metadata:        gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateSlotRuleRequest struct {
	DaysOfWeek      string `db:"days_of_week"     json:"days_of_week"     validate:"weekdays"`
	Times           string `db:"times"            json:"times"            validate:"omitempty,hhmmlist"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,gt=0,max=600"`
	PriceUSD        *int   `db:"price_usd"        json:"price_usd"        validate:"omitempty,min=0"`
	PriceTZS        *int   `db:"price_tzs"        json:"price_tzs"        validate:"omitempty,min=0"`
	Capacity        int    `db:"capacity"         json:"capacity"         validate:"omitempty,gt=0"`
	FlightNoPrefix  string `db:"flight_no_prefix" json:"flight_no_prefix" validate:"omitempty,max=20"`
	Cabin           string `db:"cabin"            json:"cabin"            validate:"omitempty,max=30"`
	Active          *bool  `db:"active"           json:"active"`
	HorizonDays     int    `db:"horizon_days"     json:"horizon_days"     validate:"omitempty,gt=0,max=366"`
}

// Apply returns the rule as it would look after the update, for invariant checks.
func (u *UpdateSlotRuleRequest) Apply(rule model.SlotRule) model.SlotRule {
	if u.DaysOfWeek != "" {
		rule.DaysOfWeek = u.DaysOfWeek
	}

	if u.Times != "" {
		rule.Times = u.Times
	}

	if u.DurationMinutes > 0 {
		rule.DurationMinutes = u.DurationMinutes
	}

	if u.Capacity > 0 {
		rule.Capacity = u.Capacity
	}

	if u.HorizonDays > 0 {
		rule.HorizonDays = u.HorizonDays
	}

	return rule
}

type SlotRuleResponse struct {
	ID              string `json:"id"`
	RouteID         string `json:"route_id"`
	DaysOfWeek      string `json:"days_of_week"`
	Times           string `json:"times"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceUSD        int    `json:"price_usd"`
	PriceTZS        *int   `json:"price_tzs"`
	Capacity        int    `json:"capacity"`
	FlightNoPrefix  string `json:"flight_no_prefix"`
	Cabin           string `json:"cabin"`
	Active          bool   `json:"active"`
	HorizonDays     int    `json:"horizon_days"`
	gDto.Metadata
}

func (r *SlotRuleResponse) FromModel(model model.SlotRule) {
	r.ID = model.ID
	r.RouteID = model.RouteID
	r.DaysOfWeek = model.DaysOfWeek
	r.Times = model.Times
	r.DurationMinutes = model.DurationMinutes
	r.PriceUSD = model.PriceUSD
	r.PriceTZS = model.PriceTZS
	r.Capacity = model.Capacity
	r.FlightNoPrefix = model.FlightNoPrefix
	r.Cabin = model.Cabin
	r.Active = model.Active
	r.HorizonDays = model.HorizonDays
	r.Metadata.FromModel(model.Metadata)
}

type GetSlotRulesResponse struct {
	SlotRules []SlotRuleResponse `json:"slot_rules"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetSlotRulesResponse) FromModels(models []model.SlotRule, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.SlotRules = make([]SlotRuleResponse, len(models))
	for i, mod := range models {
		r.SlotRules[i].FromModel(mod)
	}
}

// GenerateResult summarises one generator run. Errors name the rules that were skipped.
type GenerateResult struct {
	Rules   int      `json:"rules"`
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type ImportWeeklyPlanRequest struct {
	WeekStartDate   string      `json:"week_start_date"   validate:"required,datetime=2006-01-02"`
	Legs            []model.Leg `json:"legs"              validate:"omitempty,dive"`
	PlanID          string      `json:"plan_id"           validate:"required_without=Legs,omitempty,oneof=5H-FSA"`
	DefaultPriceUSD int         `json:"default_price_usd" validate:"omitempty,min=0"`
	DefaultCapacity int         `json:"default_capacity"  validate:"omitempty,gt=0"`
	FlightNoPrefix  string      `json:"flight_no_prefix"  validate:"omitempty,max=20"`
}

const (
	DefaultImportPriceUSD = 298
	DefaultImportCapacity = 3
)

// Normalize fills defaults and replaces an empty leg list with the preset legs.
func (r *ImportWeeklyPlanRequest) Normalize() {
	if r.DefaultPriceUSD == 0 {
		r.DefaultPriceUSD = DefaultImportPriceUSD
	}

	if r.DefaultCapacity == 0 {
		r.DefaultCapacity = DefaultImportCapacity
	}

	if r.FlightNoPrefix == "" {
		r.FlightNoPrefix = model.DefaultPrefix
	}

	if len(r.Legs) == 0 && r.PlanID != "" {
		r.Legs = model.PresetLegs(r.PlanID)
	}
}

type ImportWeeklyPlanResponse struct {
	RoutesCreated      int      `json:"routes_created"`
	TimeEntriesCreated int      `json:"time_entries_created"`
	Errors             []string `json:"errors"`
}

func orDefault(value, fallback int) int {
	if value == 0 {
		return fallback
	}

	return value
}

func orDefaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
