package model

import (
	"fmt"
	"time"

	timeEntryModel "charter/internal/domains/timeentry/model"
	"charter/shared/constant"
	"charter/shared/timezone"
)

// Expand lists the departures a rule produces over its horizon starting at today.
// The result carries no ids or metadata; callers stamp them before inserting.
func Expand(rule SlotRule, today time.Time, fxRate int) ([]timeEntryModel.TimeEntry, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	days, _ := rule.Days()
	times, _ := rule.Clock()

	priceTZS := rule.PriceUSD * fxRate
	if rule.PriceTZS != nil {
		priceTZS = *rule.PriceTZS
	}

	start := timezone.StartOfDay(today)
	entries := make([]timeEntryModel.TimeEntry, 0, rule.HorizonDays*len(times))

	for offset := range rule.HorizonDays {
		day := start.AddDate(0, 0, offset)

		if _, ok := days[timezone.Weekday(day)]; len(days) > 0 && !ok {
			continue
		}

		for _, clock := range times {
			tzs := priceTZS

			entries = append(entries, timeEntryModel.TimeEntry{
				RouteID:        rule.RouteID,
				Date:           day.Format(constant.DayFormat),
				Start:          clock,
				End:            EndTime(clock, rule.DurationMinutes),
				PriceUSD:       rule.PriceUSD,
				PriceTZS:       &tzs,
				Currency:       timeEntryModel.CurrencyUSD,
				Capacity:       rule.Capacity,
				SeatsAvailable: rule.Capacity,
				FlightNo:       FlightNo(rule.FlightNoPrefix, day),
				Cabin:          rule.Cabin,
				Visibility:     timeEntryModel.VisibilityPublic,
				Status:         timeEntryModel.StatusPublished,
			})
		}
	}

	return entries, nil
}

// EndTime adds the duration to an HH:MM clock, wrapping past midnight.
func EndTime(clock string, durationMinutes int) string {
	parsed, err := time.Parse(constant.ClockFormat, clock)
	if err != nil {
		return clock
	}

	total := (parsed.Hour()*60 + parsed.Minute() + durationMinutes) % constant.MinutesPerDay
	if total < 0 {
		total += constant.MinutesPerDay
	}

	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func FlightNo(prefix string, day time.Time) string {
	return prefix + day.Format("0102")
}
