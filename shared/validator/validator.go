// Package validator decodes JSON request bodies and checks them against struct tags.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"charter/shared"
	"charter/shared/constant"
	"charter/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	custom := []struct {
		tag      string
		fn       val.Func
		callNull bool
	}{
		{tag: "hhmm", fn: clock},
		{tag: "hhmmlist", fn: clockList},
		{tag: "weekdays", fn: weekdays, callNull: true},
	}

	for _, c := range custom {
		if err := v.RegisterValidation(c.tag, c.fn, c.callNull); err != nil {
			panic(fmt.Sprintf("validator: register %s: %v", c.tag, err))
		}
	}

	return v
}

// jsonName reports fields by their wire name so messages match the request payload.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// IsClock reports whether value is a 24h "HH:MM" time.
func IsClock(value string) bool {
	if len(value) != len(constant.ClockFormat) {
		return false
	}

	_, err := time.Parse(constant.ClockFormat, value)

	return err == nil
}

func clock(fl val.FieldLevel) bool {
	return IsClock(fl.Field().String())
}

func clockList(fl val.FieldLevel) bool {
	items := shared.SplitCSV(fl.Field().String())
	if len(items) == 0 {
		return false
	}

	for _, item := range items {
		if !IsClock(item) {
			return false
		}
	}

	return true
}

// weekdays accepts a CSV of 0..6 (0 = Monday). An empty list means every day.
func weekdays(fl val.FieldLevel) bool {
	for _, item := range shared.SplitCSV(fl.Field().String()) {
		day, err := strconv.Atoi(item)
		if err != nil || day < 0 || day > 6 {
			return false
		}
	}

	return true
}

// Validate decodes one JSON document from r into data and validates it.
// Decode and validation problems both come back as 400 failures.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return failure.BadRequestFromString("request body is empty")
		}

		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err))
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return check(validate.Struct(data))
}

// ValidateVar checks a single value against a tag expression, e.g. "required,uuid".
func ValidateVar(field any, tag string) error {
	return check(validate.Var(field, tag))
}

func check(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(message(err))
}
