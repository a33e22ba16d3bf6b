package model

import "charter/shared/model"

const (
	TableName  = "routes"
	EntityName = "route"

	FieldID         = "id"
	FieldFromLabel  = "from_label"
	FieldToLabel    = "to_label"
	FieldMainRegion = "main_region"
	FieldSubRegion  = "sub_region"
	FieldRegion     = "region"
	FieldActive     = "active"
)

const DefaultRegion = "Tanzania"

type Route struct {
	ID         string  `db:"id"`
	FromLabel  string  `db:"from_label"`
	ToLabel    string  `db:"to_label"`
	MainRegion string  `db:"main_region"`
	SubRegion  *string `db:"sub_region"`
	Region     string  `db:"region"`
	Active     bool    `db:"active"`
	model.Metadata
}
