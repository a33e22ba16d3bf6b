package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "audit_logs"
	EntityName = "audit_log"

	FieldID         = "id"
	FieldActor      = "actor"
	FieldAction     = "action"
	FieldEntityType = "entity_type"
	FieldEntityID   = "entity_id"
	FieldCreatedAt  = "created_at"
)

const (
	EntityBooking   = "booking"
	EntityTimeEntry = "time_entry"
	EntitySlotRule  = "slot_rule"
	EntityRoute     = "route"
	EntityPayment   = "payment"
	EntitySetting   = "setting"
	EntityPilot     = "pilot_assignment"
	EntityUser      = "user"
)

type AuditLog struct {
	ID         string         `db:"id"`
	Actor      string         `db:"actor"`
	Action     string         `db:"action"`
	EntityType string         `db:"entity_type"`
	EntityID   string         `db:"entity_id"`
	Details    types.JSONText `db:"details"`
	CreatedAt  time.Time      `db:"created_at"`
}
