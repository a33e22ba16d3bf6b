package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required":         "%f is required",
	"required_without": "%f is required when %p is empty",
	"email":            "%f must be a valid email address",
	"uuid":             "%f must be a valid UUID",
	"hexadecimal":      "%f must be hexadecimal",
	"datetime":         "%f must match the layout %p",
	"oneof":            "%f must be one of [%p]",
	"len":              "%f must have a length of %p",
	"min":              "%f must be at least %p",
	"max":              "%f must be at most %p",
	"gt":               "%f must be greater than %p",
	"gte":              "%f must be greater than or equal to %p",
	"lte":              "%f must be less than or equal to %p",
	"ltefield":         "%f must not be after %p",
	"nefield":          "%f must differ from %p",
	"hhmm":             "%f must be a time in HH:MM format",
	"hhmmlist":         "%f must be a comma separated list of HH:MM times",
	"weekdays":         "%f must be a comma separated list of days between 0 (Monday) and 6 (Sunday)",
}

// message renders every field error, joined with "; ". Unknown tags fall back to a generic line.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	lines := make([]string, 0, len(fieldErrors))

	for _, fe := range fieldErrors {
		lines = append(lines, describe(fe))
	}

	return strings.Join(lines, "; ")
}

func describe(fe val.FieldError) string {
	tmpl, ok := templates[fe.Tag()]
	if !ok {
		return fe.Field() + " failed the " + fe.Tag() + " check"
	}

	return strings.NewReplacer("%f", fe.Field(), "%p", fe.Param()).Replace(tmpl)
}
