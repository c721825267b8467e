// Package ct tracks Corporation Tax filing obligations: due-date
// recomputation policy, manual overrides, and the pending/overdue/filed
// lifecycle.
package ct

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a client has no CT tracking record.
var ErrNotFound = errors.New("ct tracking record not found")

// TrackingStatus is the lifecycle state of a CT obligation.
type TrackingStatus string

const (
	StatusPending TrackingStatus = "pending"
	StatusFiled   TrackingStatus = "filed"
	StatusOverdue TrackingStatus = "overdue"
)

// Source records whether the due date was computed or set by hand.
type Source string

const (
	SourceAuto   Source = "auto"
	SourceManual Source = "manual"
)

// Tracking is the CT obligation state for one client. DueDate is a cached,
// overridable value; the ground truth is the year end it derives from.
type Tracking struct {
	ClientID uuid.UUID

	Status      TrackingStatus
	DueDate     *time.Time
	PeriodStart *time.Time
	PeriodEnd   *time.Time

	Source         Source
	ManualOverride *time.Time

	FiledAt   *time.Time
	UpdatedAt time.Time
	UpdatedBy *uuid.UUID
}
