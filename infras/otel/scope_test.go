package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"charter/infras/otel"
)

type seat int

func (s seat) String() string { return "seat" }

func TestAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "string", value: "FSB-K7Q2ZP", want: attribute.StringValue("FSB-K7Q2ZP")},
		{name: "int", value: 3, want: attribute.IntValue(3)},
		{name: "int64", value: int64(9), want: attribute.Int64Value(9)},
		{name: "float", value: 2450.5, want: attribute.Float64Value(2450.5)},
		{name: "strings", value: []string{"ops", "admin"}, want: attribute.StringSliceValue([]string{"ops", "admin"})},
		{name: "duration in ms", value: 1500 * time.Millisecond, want: attribute.Int64Value(1500)},
		{name: "time", value: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), want: attribute.StringValue("2026-03-14T09:30:00Z")},
		{name: "stringer", value: seat(4), want: attribute.StringValue("seat")},
		{name: "fallback", value: errors.New("boom"), want: attribute.StringValue("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := otel.Attribute("k", tt.value)

			assert.Equal(t, attribute.Key("k"), kv.Key)
			assert.Equal(t, tt.want, kv.Value)
		})
	}
}

func TestScope_TraceIfError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "error set after defer is recorded", err: errors.New("card declined"), want: codes.Error},
		{name: "nil error leaves status unset", err: nil, want: codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

			run := func() (err error) {
				_, span := provider.Tracer("service").Start(context.Background(), "service.payment.Pay")
				scope := otel.NewScope(span)
				defer scope.End()
				defer scope.TraceIfError(&err)

				return tt.err
			}

			assert.Equal(t, tt.err, run())

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.want, spans[0].Status().Code)
		})
	}
}
