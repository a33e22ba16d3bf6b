// Package timezone pins every clock and calendar computation to the zone named by APP_TIMEZONE.
// Departures, slot generation and hold expiry all read the time through Now so they agree on "today".
package timezone

import (
	"time"
	_ "time/tzdata"

	"charter/config"

	"github.com/rs/zerolog/log"
)

const fallbackZone = "UTC"

var appLocation = Load(config.Get().App.Timezone)

// Load resolves an IANA zone name. Blank or unknown names fall back to UTC with a log line.
func Load(name string) *time.Location {
	if name == "" {
		log.Warn().Str("fallback", fallbackZone).Msg("no timezone configured")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Str("fallback", fallbackZone).Msg("unknown timezone")

		return time.UTC
	}

	return loc
}

func Now() time.Time {
	return time.Now().In(appLocation)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

// Parse reads value as wall time in the application zone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation)
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// Today is midnight of the current local day.
func Today() time.Time {
	return StartOfDay(Now())
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := ToAppTime(t).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, appLocation)
}

// Weekday numbers days from Monday (0) to Sunday (6).
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// StartOfWeek returns the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)

	return day.AddDate(0, 0, -Weekday(day))
}
