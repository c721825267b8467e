package workflow

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no period record exists for the key.
	ErrNotFound = errors.New("workflow period not found")

	// ErrCompleted is returned for stage transitions against a filed period.
	ErrCompleted = errors.New("workflow period is completed")

	// ErrSkipNeedsConfirm is returned when a transition would skip stages
	// and the caller has not confirmed the skip.
	ErrSkipNeedsConfirm = errors.New("transition skips stages and requires confirmation")

	// ErrStageNotAllowed is returned for transitions the stage graph
	// rejects outright (illegal regression).
	ErrStageNotAllowed = errors.New("stage transition not allowed")
)

// Key identifies one filing period for one client: a VAT quarter or an
// accounts year. PeriodID is the quarter's "YYYY-MM" id for VAT and the
// year-end "YYYY-MM" for accounts workflows.
type Key struct {
	ClientID uuid.UUID
	Type     Type
	PeriodID string
}

// Milestones records the first time a workflow entered each named stage.
// First write wins: later transitions through other stages never overwrite
// an earlier timestamp.
type Milestones struct {
	ChaseStartedAt      *time.Time
	PaperworkReceivedAt *time.Time
	WorkStartedAt       *time.Time
	ManagerReviewAt     *time.Time
	PartnerReviewAt     *time.Time
	SentToClientAt      *time.Time
	ClientApprovedAt    *time.Time
	FiledAt             *time.Time
}

func (m *Milestones) fieldFor(stage Stage) **time.Time {
	switch stage {
	case StageChaseStarted:
		return &m.ChaseStartedAt
	case StagePaperworkReceived:
		return &m.PaperworkReceivedAt
	case StageWorkInProgress:
		return &m.WorkStartedAt
	case StageReviewedByManager:
		return &m.ManagerReviewAt
	case StageReviewedByPartner:
		return &m.PartnerReviewAt
	case StageSentToClient:
		return &m.SentToClientAt
	case StageClientApproved:
		return &m.ClientApprovedAt
	case StageFiledToHMRC:
		return &m.FiledAt
	default:
		return nil
	}
}

// Stamp records the milestone for entering a stage, if the stage carries one
// and it has not been stamped before.
func (m *Milestones) Stamp(stage Stage, at time.Time) {
	field := m.fieldFor(stage)
	if field == nil || *field != nil {
		return
	}

	*field = &at
}

// Period is one client's filing period moving through a workflow. Records
// are created lazily on first access and never deleted in normal operation.
type Period struct {
	ID       uuid.UUID
	ClientID uuid.UUID
	Type     Type
	PeriodID string

	PeriodStart time.Time
	PeriodEnd   time.Time
	FilingDue   time.Time

	CurrentStage   Stage
	StageEnteredAt time.Time
	IsCompleted    bool

	// AssignedUserID is independent per period; it does not inherit from
	// any client-level assignment.
	AssignedUserID *uuid.UUID

	Milestones Milestones

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryEntry records one accepted stage transition. Entries are append
// only and immutable once written.
type HistoryEntry struct {
	ID        uuid.UUID
	PeriodRef uuid.UUID

	FromStage Stage
	ToStage   Stage

	ActorID uuid.UUID
	At      time.Time
	Notes   string

	DaysInPreviousStage int
}

// ListFilter narrows period listings for dashboards and workload views.
type ListFilter struct {
	Type           *Type
	AssignedUserID *uuid.UUID
	Completed      *bool
}
