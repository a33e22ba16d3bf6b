package dto

import (
	"time"

	"charter/internal/domains/pilot/model"
	"charter/shared"
	gDto "charter/shared/dto"
)

type AssignPilotRequest struct {
	TimeEntryID string `json:"time_entry_id" validate:"required,uuid"`
	PilotEmail  string `json:"pilot_email"   validate:"required,email"`
}

type AssignmentResponse struct {
	ID          string     `json:"id"`
	TimeEntryID string     `json:"time_entry_id"`
	PilotUserID string     `json:"pilot_user_id"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	gDto.Metadata
}

func (r *AssignmentResponse) FromModel(m model.Assignment) {
	r.ID = m.ID
	r.TimeEntryID = m.TimeEntryID
	r.PilotUserID = m.PilotUserID
	r.Status = m.Status
	r.CompletedAt = m.CompletedAt
	r.Metadata.FromModel(m.Metadata)
}

type GetAssignmentsResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetAssignmentsResponse) FromModels(models []model.Assignment, total, limit int) {
	r.Assignments = make([]AssignmentResponse, len(models))

	for i, m := range models {
		r.Assignments[i].FromModel(m)
	}

	r.TotalData = total
	r.TotalPage = shared.CalculateTotalPage(total, limit)
}

// EmailNotification is queued on the notification topic. Delivery happens elsewhere.
type EmailNotification struct {
	To         string `json:"to"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	BookingRef string `json:"booking_ref"`
}
