package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charter/internal/domains/slotrule/model"
	"charter/shared/constant"
	"charter/shared/timezone"
)

func monday(t *testing.T) model.SlotRule {
	t.Helper()

	return model.SlotRule{
		RouteID:         "route-1",
		DaysOfWeek:      "0,2",
		Times:           "09:00,14:00",
		DurationMinutes: 40,
		PriceUSD:        298,
		Capacity:        3,
		FlightNoPrefix:  "FSB",
		Cabin:           "Economy",
		HorizonDays:     3,
	}
}

func TestExpand(t *testing.T) {
	today, err := timezone.Parse(constant.DayFormat, "2026-03-02")
	require.NoError(t, err)

	t.Run("weekday filter over the horizon", func(t *testing.T) {
		entries, err := model.Expand(monday(t), today, 2450)
		require.NoError(t, err)
		require.Len(t, entries, 4)

		got := make([]string, len(entries))
		for i, entry := range entries {
			got[i] = entry.Date + " " + entry.Start
		}

		assert.Equal(t, []string{
			"2026-03-02 09:00",
			"2026-03-02 14:00",
			"2026-03-04 09:00",
			"2026-03-04 14:00",
		}, got)

		first := entries[0]
		assert.Equal(t, "09:40", first.End)
		assert.Equal(t, "FSB0302", first.FlightNo)
		assert.Equal(t, 3, first.SeatsAvailable)
		assert.Equal(t, 3, first.Capacity)
		assert.Equal(t, 298*2450, *first.PriceTZS)
	})

	t.Run("empty day set means every day", func(t *testing.T) {
		rule := monday(t)
		rule.DaysOfWeek = ""
		rule.Times = "09:00"

		entries, err := model.Expand(rule, today, 2450)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("explicit tzs price wins", func(t *testing.T) {
		rule := monday(t)
		price := 700000
		rule.PriceTZS = &price

		entries, err := model.Expand(rule, today, 2450)
		require.NoError(t, err)
		assert.Equal(t, 700000, *entries[0].PriceTZS)
	})

	t.Run("expansion is deterministic", func(t *testing.T) {
		first, _ := model.Expand(monday(t), today, 2450)
		second, _ := model.Expand(monday(t), today, 2450)

		assert.Equal(t, first, second)
	})

	t.Run("malformed rules", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(rule *model.SlotRule)
		}{
			{"day out of range", func(rule *model.SlotRule) { rule.DaysOfWeek = "0,7" }},
			{"day not a number", func(rule *model.SlotRule) { rule.DaysOfWeek = "mon" }},
			{"bad time", func(rule *model.SlotRule) { rule.Times = "9am" }},
			{"no times", func(rule *model.SlotRule) { rule.Times = " , " }},
			{"zero horizon", func(rule *model.SlotRule) { rule.HorizonDays = 0 }},
			{"zero capacity", func(rule *model.SlotRule) { rule.Capacity = 0 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rule := monday(t)
				tt.mutate(&rule)

				_, err := model.Expand(rule, today, 2450)
				assert.True(t, errors.Is(err, model.ErrInvalidRule))
			})
		}
	})
}

func TestEndTime(t *testing.T) {
	tests := []struct {
		clock    string
		duration int
		want     string
	}{
		{"09:30", 40, "10:10"},
		{"23:40", 30, "00:10"},
		{"17:35", 60, "18:35"},
		{"00:00", 1440, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			assert.Equal(t, tt.want, model.EndTime(tt.clock, tt.duration))
		})
	}
}

func TestPresetLegs(t *testing.T) {
	legs := model.PresetLegs(model.Preset5HFSA)
	assert.Len(t, legs, 12)
	assert.Equal(t, "JNIA", legs[0].FromCode)

	legs[0].FromCode = "changed"
	assert.Equal(t, "JNIA", model.PresetLegs(model.Preset5HFSA)[0].FromCode)

	assert.Nil(t, model.PresetLegs("unknown"))
}
