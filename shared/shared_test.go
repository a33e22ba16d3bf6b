package shared_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"charter/shared"
	"charter/shared/constant"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		input string
		want  *bool
	}{
		{input: "", want: nil},
		{input: "true", want: shared.Ptr(true)},
		{input: "1", want: shared.Ptr(true)},
		{input: "FALSE", want: shared.Ptr(false)},
		{input: "yes", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{total: 0, limit: 10, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 99, limit: 20, want: 5},
		{total: 5, limit: 0, want: 1},
		{total: -3, limit: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.limit), func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"09:00", "14:00"}, shared.SplitCSV("09:00,14:00"))
	assert.Equal(t, []string{"0", "2"}, shared.SplitCSV(" 0, ,2 ,"))
	assert.Equal(t, []string{}, shared.SplitCSV(""))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, shared.IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation})))
	assert.False(t, shared.IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, shared.IsUniqueViolation(errors.New("boom")))
	assert.False(t, shared.IsUniqueViolation(nil))
}

func TestDerefAndPtr(t *testing.T) {
	assert.Equal(t, 0, shared.Deref[int](nil))
	assert.Equal(t, 3200, shared.Deref(shared.Ptr(3200)))
	assert.Equal(t, "", shared.Deref[string](nil))
}

func TestActor(t *testing.T) {
	assert.Equal(t, constant.ActorSystem, shared.Actor(context.Background()))
	assert.Empty(t, shared.ActorRole(context.Background()))

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleOps)

	assert.Equal(t, "user-1", shared.Actor(ctx))
	assert.Equal(t, constant.RoleOps, shared.ActorRole(ctx))
}
