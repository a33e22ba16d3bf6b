package dto

import (
	"charter/internal/domains/audit/model"
	"charter/shared"
	"charter/shared/constant"
	"charter/shared/timezone"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Entry describes one mutating action. The actor is taken from the request context.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
}

func (e *Entry) ToModel(actor string, now time.Time) (model.AuditLog, error) {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return model.AuditLog{}, err
	}

	return model.AuditLog{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    types.JSONText(raw),
		CreatedAt:  now,
	}, nil
}

type AuditLogResponse struct {
	ID         string          `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Details    json.RawMessage `json:"details" swaggertype:"object"`
	CreatedAt  string          `json:"created_at"`
}

func (r *AuditLogResponse) FromModel(model model.AuditLog) {
	r.ID = model.ID
	r.Actor = model.Actor
	r.Action = model.Action
	r.EntityType = model.EntityType
	r.EntityID = model.EntityID
	r.Details = json.RawMessage(model.Details)
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)

	if len(r.Details) == 0 {
		r.Details = json.RawMessage("{}")
	}
}

type GetAuditLogsResponse struct {
	AuditLogs []AuditLogResponse `json:"audit_logs"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetAuditLogsResponse) FromModels(models []model.AuditLog, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.AuditLogs = make([]AuditLogResponse, len(models))
	for i, mod := range models {
		r.AuditLogs[i].FromModel(mod)
	}
}
