package dto

import (
	"charter/internal/domains/route/model"
	"charter/shared"
	gDto "charter/shared/dto"
	gModel "charter/shared/model"
	"charter/shared/timezone"

	"github.com/google/uuid"
)

type CreateRouteRequest struct {
	FromLabel  string  `json:"from_label"  validate:"required,max=120"`
	ToLabel    string  `json:"to_label"    validate:"required,max=120,nefield=FromLabel"`
	MainRegion string  `json:"main_region" validate:"omitempty,oneof=DAR ZANZIBAR MAINLAND"`
	SubRegion  *string `json:"sub_region"  validate:"omitempty,max=80"`
	Region     string  `json:"region"      validate:"omitempty,max=80"`
	Active     *bool   `json:"active"`
}

// ToModel derives the main region from the origin when it is not given.
func (c *CreateRouteRequest) ToModel(user string) model.Route {
	mainRegion := c.MainRegion
	if mainRegion == "" {
		mainRegion = model.MainRegionFor(c.FromLabel)
	}

	region := c.Region
	if region == "" {
		region = model.DefaultRegion
	}

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Route{
		ID:         uuid.NewString(),
		FromLabel:  c.FromLabel,
		ToLabel:    c.ToLabel,
		MainRegion: mainRegion,
		SubRegion:  c.SubRegion,
		Region:     region,
		Active:     active,
		Metadata:   gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateRouteRequest struct {
	FromLabel  string  `db:"from_label"  json:"from_label"  validate:"omitempty,max=120"`
	ToLabel    string  `db:"to_label"    json:"to_label"    validate:"omitempty,max=120"`
	MainRegion string  `db:"main_region" json:"main_region" validate:"omitempty,oneof=DAR ZANZIBAR MAINLAND"`
	SubRegion  *string `db:"sub_region"  json:"sub_region"  validate:"omitempty,max=80"`
	Region     string  `db:"region"      json:"region"      validate:"omitempty,max=80"`
	Active     *bool   `db:"active"      json:"active"`
}

type RouteResponse struct {
	ID         string  `json:"id"`
	FromLabel  string  `json:"from_label"`
	ToLabel    string  `json:"to_label"`
	MainRegion string  `json:"main_region"`
	SubRegion  *string `json:"sub_region"`
	Region     string  `json:"region"`
	Active     bool    `json:"active"`
	gDto.Metadata
}

func (r *RouteResponse) FromModel(model model.Route) {
	r.ID = model.ID
	r.FromLabel = model.FromLabel
	r.ToLabel = model.ToLabel
	r.MainRegion = model.MainRegion
	r.SubRegion = model.SubRegion
	r.Region = model.Region
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoutesResponse struct {
	Routes    []RouteResponse `json:"routes"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetRoutesResponse) FromModels(models []model.Route, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Routes = make([]RouteResponse, len(models))
	for i, mod := range models {
		r.Routes[i].FromModel(mod)
	}
}
