package model

import (
	"errors"
	"fmt"
	"strconv"

	"charter/shared"
	"charter/shared/model"
	"charter/shared/validator"
)

const (
	TableName  = "slot_rules"
	EntityName = "slot_rule"

	FieldID      = "id"
	FieldRouteID = "route_id"
	FieldActive  = "active"
)

const (
	DefaultDays     = "0,1,2,3,4,5,6"
	DefaultDuration = 30
	DefaultCapacity = 3
	DefaultHorizon  = 90
	DefaultPrefix   = "FSB"
	DefaultCabin    = "Economy"
)

var ErrInvalidRule = errors.New("invalid slot rule")

// SlotRule is a recurring schedule template for one route. DaysOfWeek uses 0 = Monday.
type SlotRule struct {
	ID              string `db:"id"`
	RouteID         string `db:"route_id"`
	DaysOfWeek      string `db:"days_of_week"`
	Times           string `db:"times"`
	DurationMinutes int    `db:"duration_minutes"`
	PriceUSD        int    `db:"price_usd"`
	PriceTZS        *int   `db:"price_tzs"`
	Capacity        int    `db:"capacity"`
	FlightNoPrefix  string `db:"flight_no_prefix"`
	Cabin           string `db:"cabin"`
	Active          bool   `db:"active"`
	HorizonDays     int    `db:"horizon_days"`
	model.Metadata
}

// Days parses the weekday set. An empty set means every day.
func (r SlotRule) Days() (map[int]struct{}, error) {
	days := map[int]struct{}{}

	for _, item := range shared.SplitCSV(r.DaysOfWeek) {
		day, err := strconv.Atoi(item)
		if err != nil || day < 0 || day > 6 {
			return nil, fmt.Errorf("%w: day %q is not in 0..6", ErrInvalidRule, item)
		}

		days[day] = struct{}{}
	}

	return days, nil
}

// Clock returns the departure times in the order they were written.
func (r SlotRule) Clock() ([]string, error) {
	times := shared.SplitCSV(r.Times)
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: times must not be empty", ErrInvalidRule)
	}

	for _, item := range times {
		if !validator.IsClock(item) {
			return nil, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidRule, item)
		}
	}

	return times, nil
}

func (r SlotRule) Validate() error {
	switch {
	case r.HorizonDays <= 0:
		return fmt.Errorf("%w: horizon_days must be positive", ErrInvalidRule)
	case r.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidRule)
	case r.DurationMinutes <= 0:
		return fmt.Errorf("%w: duration_minutes must be positive", ErrInvalidRule)
	}

	if _, err := r.Days(); err != nil {
		return err
	}

	_, err := r.Clock()

	return err
}
