package helper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"charter/helper"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		arg     string
		want    helper.Action
		wantErr error
	}{
		{arg: "up", want: helper.ActionUp},
		{arg: "down", want: helper.ActionDown},
		{arg: "step-up", want: helper.ActionStepUp},
		{arg: "drop", want: helper.ActionDrop},
		{arg: "sideways", wantErr: helper.ErrUnknownAction},
		{arg: "", wantErr: helper.ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := helper.ParseAction(tt.arg)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}
