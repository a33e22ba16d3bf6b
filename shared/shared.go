// Package shared holds the small helpers every domain service leans on.
package shared

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"charter/shared/constant"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// ConvertStringToBool parses an optional query flag. Blank or malformed input yields nil.
func ConvertStringToBool(value string) *bool {
	if value == constant.Empty {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Msg("ignoring malformed boolean")

		return nil
	}

	return &parsed
}

// CalculateTotalPage never returns less than one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// Actor returns the authenticated user id, or the system actor for background work.
func Actor(ctx context.Context) string {
	if id, _ := ctx.Value(constant.ContextKeyUserID).(string); id != constant.Empty {
		return id
	}

	return constant.ActorSystem
}

func ActorRole(ctx context.Context) string {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return role
}

func IsPqError(err error, code string) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

func IsUniqueViolation(err error) bool {
	return IsPqError(err, constant.PqErrorCodeUniqueViolation)
}

// SplitCSV splits a comma separated list, trimming items and dropping blanks.
func SplitCSV(value string) []string {
	items := make([]string, 0, strings.Count(value, ",")+1)

	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != constant.Empty {
			items = append(items, item)
		}
	}

	return items
}

func Deref[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}

	return *value
}

func Ptr[T any](value T) *T {
	return &value
}
