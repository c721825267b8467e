package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/workflow"
)

type Stage struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

func toStage(s workflow.Stage) Stage {
	return Stage{ID: string(s), Display: s.Display()}
}

type milestonesResponse struct {
	ChaseStartedAt      *time.Time `json:"chase_started_at,omitempty"`
	PaperworkReceivedAt *time.Time `json:"paperwork_received_at,omitempty"`
	WorkStartedAt       *time.Time `json:"work_started_at,omitempty"`
	ManagerReviewAt     *time.Time `json:"manager_review_at,omitempty"`
	PartnerReviewAt     *time.Time `json:"partner_review_at,omitempty"`
	SentToClientAt      *time.Time `json:"sent_to_client_at,omitempty"`
	ClientApprovedAt    *time.Time `json:"client_approved_at,omitempty"`
	FiledAt             *time.Time `json:"filed_at,omitempty"`
}

type periodResponse struct {
	ID       uuid.UUID     `json:"id"`
	ClientID uuid.UUID     `json:"client_id"`
	Type     workflow.Type `json:"type"`
	PeriodID string        `json:"period_id"`

	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	FilingDue   time.Time `json:"filing_due"`

	CurrentStage   Stage     `json:"current_stage"`
	StageEnteredAt time.Time `json:"stage_entered_at"`
	IsCompleted    bool      `json:"is_completed"`

	AssignedUserID *uuid.UUID `json:"assigned_user_id,omitempty"`

	Milestones milestonesResponse `json:"milestones"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(p *workflow.Period) periodResponse {
	return periodResponse{
		ID:             p.ID,
		ClientID:       p.ClientID,
		Type:           p.Type,
		PeriodID:       p.PeriodID,
		PeriodStart:    p.PeriodStart,
		PeriodEnd:      p.PeriodEnd,
		FilingDue:      p.FilingDue,
		CurrentStage:   toStage(p.CurrentStage),
		StageEnteredAt: p.StageEnteredAt,
		IsCompleted:    p.IsCompleted,
		AssignedUserID: p.AssignedUserID,
		Milestones: milestonesResponse{
			ChaseStartedAt:      p.Milestones.ChaseStartedAt,
			PaperworkReceivedAt: p.Milestones.PaperworkReceivedAt,
			WorkStartedAt:       p.Milestones.WorkStartedAt,
			ManagerReviewAt:     p.Milestones.ManagerReviewAt,
			PartnerReviewAt:     p.Milestones.PartnerReviewAt,
			SentToClientAt:      p.Milestones.SentToClientAt,
			ClientApprovedAt:    p.Milestones.ClientApprovedAt,
			FiledAt:             p.Milestones.FiledAt,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toResponseList(periods []*workflow.Period) []periodResponse {
	resp := make([]periodResponse, len(periods))
	for i, p := range periods {
		resp[i] = toResponse(p)
	}

	return resp
}

type historyResponse struct {
	ID        uuid.UUID `json:"id"`
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	ActorID   uuid.UUID `json:"actor_id"`
	At        time.Time `json:"at"`
	Notes     string    `json:"notes,omitempty"`

	DaysInPreviousStage int `json:"days_in_previous_stage"`
}

func toHistoryList(entries []workflow.HistoryEntry) []historyResponse {
	resp := make([]historyResponse, len(entries))
	for i, e := range entries {
		resp[i] = historyResponse{
			ID:                  e.ID,
			FromStage:           string(e.FromStage),
			ToStage:             string(e.ToStage),
			ActorID:             e.ActorID,
			At:                  e.At,
			Notes:               e.Notes,
			DaysInPreviousStage: e.DaysInPreviousStage,
		}
	}

	return resp
}
