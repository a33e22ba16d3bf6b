// Package mocks holds a tracer that drops every span.
package mocks

import (
	"context"

	"charter/infras/otel"
)

type discard struct{}

func NewOtel() otel.Otel {
	return discard{}
}

func NewScope() otel.Scope {
	return discard{}
}

func (discard) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, discard{}
}

func (discard) End()                         {}
func (discard) TraceError(error)             {}
func (discard) TraceIfError(*error)          {}
func (discard) AddEvent(string)              {}
func (discard) SetAttribute(string, any)     {}
func (discard) SetAttributes(map[string]any) {}
