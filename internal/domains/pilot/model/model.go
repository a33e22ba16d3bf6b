package model

import (
	"time"

	"charter/shared/failure"
	"charter/shared/model"
)

const (
	TableName  = "pilot_assignments"
	EntityName = "pilot assignment"

	FieldID          = "id"
	FieldTimeEntryID = "time_entry_id"
	FieldPilotUserID = "pilot_user_id"
	FieldStatus      = "status"
	FieldCompletedAt = "completed_at"
)

// Assignments only move forward.
const (
	StatusAssigned  = "assigned"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
)

func NotFound() error { return failure.NotFound(EntityName) }

type Assignment struct {
	ID          string     `db:"id"`
	TimeEntryID string     `db:"time_entry_id"`
	PilotUserID string     `db:"pilot_user_id"`
	Status      string     `db:"status"`
	CompletedAt *time.Time `db:"completed_at"`
	model.Metadata
}
