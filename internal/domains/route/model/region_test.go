package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"charter/internal/domains/route/model"
)

func TestResolveLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"JNIA", "Dar es Salaam Airport"},
		{"DAR", "Dar es Salaam Airport"},
		{" AAKI ", "Zanzibar Airport"},
		{"ZNZ", "Zanzibar Airport"},
		{"Nungwi", "Zanzibar Nungwi"},
		{"Seacliff", "Zanzibar Seacliff"},
		{"Paje", "Paje"},
		{"Zanzibar Paje", "Zanzibar Paje"},
		{"Arusha", "Arusha"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ResolveLabel(tt.code))
		})
	}
}

func TestMainRegionFor(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Dar es Salaam Airport", model.MainRegionDar},
		{"Dar es Salaam Harbour", model.MainRegionDar},
		{"Zanzibar Airport", model.MainRegionZanzibar},
		{"Paje", model.MainRegionZanzibar},
		{"Zanzibar Stone Town", model.MainRegionZanzibar},
		{"Arusha", model.MainRegionMainland},
		{"", model.MainRegionMainland},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, model.MainRegionFor(tt.label))
		})
	}
}
