package dto

import "charter/internal/domains/settings/model"

type SetFXRateRequest struct {
	Rate int `json:"rate" validate:"required,gt=0"`
}

type FXRateResponse struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
	Rate  int    `json:"rate"`
}

// USDToTZS quotes rate TZS for one USD.
func USDToTZS(rate int) FXRateResponse {
	return FXRateResponse{Base: "USD", Quote: "TZS", Rate: rate}
}

type SetTermsRequest struct {
	Version   string `json:"version"    validate:"omitempty,max=20"`
	DocSHA256 string `json:"doc_sha256" validate:"omitempty,len=64,hexadecimal"`
	URL       string `json:"url"        validate:"omitempty,max=255"`
}

// ToModel fills blank fields from the defaults.
func (r *SetTermsRequest) ToModel() model.Terms {
	terms := model.DefaultTerms()

	if r.Version != "" {
		terms.Version = r.Version
	}

	terms.DocSHA256 = r.DocSHA256

	if r.URL != "" {
		terms.URL = r.URL
	}

	return terms
}

type TermsResponse struct {
	Version   string `json:"version"`
	DocSHA256 string `json:"doc_sha256"`
	URL       string `json:"url"`
}

func (r *TermsResponse) FromModel(terms model.Terms) {
	r.Version = terms.Version
	r.DocSHA256 = terms.DocSHA256
	r.URL = terms.URL
}
