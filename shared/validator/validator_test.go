package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"charter/shared/failure"
	"charter/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holdRequest struct {
	DepartureID string   `json:"departure_id" validate:"required,uuid"`
	Seats       int      `json:"seats" validate:"gte=1,lte=8"`
	Email       string   `json:"email" validate:"required,email"`
	Currency    string   `json:"currency" validate:"omitempty,oneof=IDR USD"`
	Names       []string `json:"names" validate:"dive,min=2"`
}

type ruleRequest struct {
	Times    string `json:"times" validate:"required,hhmmlist"`
	Weekdays string `json:"weekdays" validate:"weekdays"`
	Start    string `json:"start" validate:"omitempty,hhmm"`
}

func validHold() holdRequest {
	return holdRequest{
		DepartureID: "0b6f3b8e-6c7d-4c4e-9d8a-3f1f7f0c2a11",
		Seats:       2,
		Email:       "guest@charter.test",
		Currency:    "IDR",
		Names:       []string{"Ayu", "Budi"},
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *holdRequest)
		message string
	}{
		{
			name:   "valid",
			mutate: func(*holdRequest) {},
		},
		{
			name:    "missing departure",
			mutate:  func(r *holdRequest) { r.DepartureID = "" },
			message: "departure_id is required",
		},
		{
			name:    "bad uuid",
			mutate:  func(r *holdRequest) { r.DepartureID = "dep-1" },
			message: "departure_id must be a valid UUID",
		},
		{
			name:    "too many seats",
			mutate:  func(r *holdRequest) { r.Seats = 9 },
			message: "seats must be less than or equal to 8",
		},
		{
			name:    "unknown currency",
			mutate:  func(r *holdRequest) { r.Currency = "EUR" },
			message: "currency must be one of [IDR USD]",
		},
		{
			name:    "short passenger name",
			mutate:  func(r *holdRequest) { r.Names = []string{"A"} },
			message: "names[0] must be at least 2",
		},
		{
			name: "every failure is reported",
			mutate: func(r *holdRequest) {
				r.Seats = 0
				r.Email = "nope"
			},
			message: "seats must be greater than or equal to 1; email must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validHold()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidateStruct_ClockRules(t *testing.T) {
	tests := []struct {
		name    string
		req     ruleRequest
		wantErr string
	}{
		{name: "valid", req: ruleRequest{Times: "07:30, 13:00", Weekdays: "0,2,4", Start: "06:00"}},
		{name: "empty weekdays means every day", req: ruleRequest{Times: "09:00"}},
		{name: "bad clock in list", req: ruleRequest{Times: "07:30,25:00"}, wantErr: "times must be a comma separated list of HH:MM times"},
		{name: "single digit hour", req: ruleRequest{Times: "7:30"}, wantErr: "times must be a comma separated list of HH:MM times"},
		{name: "weekday out of range", req: ruleRequest{Times: "09:00", Weekdays: "1,7"}, wantErr: "weekdays must be a comma separated list of days between 0 (Monday) and 6 (Sunday)"},
		{name: "bad start", req: ruleRequest{Times: "09:00", Start: "noon"}, wantErr: "start must be a time in HH:MM format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "decodes and validates",
			body: `{"departure_id":"0b6f3b8e-6c7d-4c4e-9d8a-3f1f7f0c2a11","seats":1,"email":"a@b.co"}`,
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: "request body is empty",
		},
		{
			name:    "malformed json",
			body:    `{"seats":`,
			wantErr: "failed to decode request body",
		},
		{
			name:    "wrong type",
			body:    `{"seats":"two"}`,
			wantErr: "failed to decode request body",
		},
		{
			name:    "decoded but invalid",
			body:    `{"seats":1}`,
			wantErr: "departure_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req holdRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("guest@charter.test", "required,email"))
	assert.Error(t, validator.ValidateVar("", "required"))
	assert.Error(t, validator.ValidateVar("abc", "uuid"))
}

func TestIsClock(t *testing.T) {
	assert.True(t, validator.IsClock("00:00"))
	assert.True(t, validator.IsClock("23:59"))
	assert.False(t, validator.IsClock("24:00"))
	assert.False(t, validator.IsClock("9:15"))
	assert.False(t, validator.IsClock("09:15:00"))
}
