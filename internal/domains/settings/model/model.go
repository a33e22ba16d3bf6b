package model

import "charter/shared/model"

const (
	TableName  = "settings"
	EntityName = "setting"

	FieldKey      = "key"
	FieldIntValue = "int_value"
	FieldStrValue = "str_value"
)

const (
	KeyFXRate = "USD_TO_TZS"
	KeyTerms  = "TERMS"
)

type Setting struct {
	Key      string  `db:"key"`
	IntValue *int    `db:"int_value"`
	StrValue *string `db:"str_value"`
	model.Metadata
}

type Terms struct {
	Version   string `json:"version"`
	DocSHA256 string `json:"docSha256"`
	URL       string `json:"url"`
}

func DefaultTerms() Terms {
	return Terms{
		Version:   "2025",
		DocSHA256: "edfe624c7f9b2dac0ced3b189039f693c0683123f12881d3702b0fcf4d19631d",
		URL:       "fly/terms-and-conditions.html",
	}
}
