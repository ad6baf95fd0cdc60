package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPostponed Status = "postponed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPostponed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status is an end state for retention purposes.
// The state machine itself does not forbid leaving a terminal state; an admin
// edit may move a completed appointment back to pending.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// RetentionPeriod is how long a completed or cancelled appointment is kept
// before the cleanup sweep deletes it permanently.
const RetentionPeriod = 30 * 24 * time.Hour

type Appointment struct {
	ID uuid.UUID `json:"id"`

	// UserID is a weak link to a registered account, resolved by email at
	// booking time. Walk-in bookers without an account leave it nil.
	UserID *uuid.UUID `json:"userId,omitempty"`

	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	ServiceID uuid.UUID  `json:"serviceId"`
	DoctorID  *uuid.UUID `json:"doctorId,omitempty"`

	// Date is a calendar date ("2006-01-02"); Time is a 12-hour clock string
	// ("02:30 PM"). ScheduledAt is derived from the two and must always be
	// recomputable from them.
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	ScheduledAt time.Time `json:"scheduledAt"`

	Status  Status `json:"status"`
	Details string `json:"details,omitempty"`

	// CompletedAt and CancelledAt are stamped the first time the appointment
	// enters the matching status and are never cleared or re-stamped, even if
	// the appointment later leaves and re-enters that status.
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CleanupEligible reports whether the appointment has sat in a terminal state
// longer than the retention period and may be permanently deleted.
func (a *Appointment) CleanupEligible(now time.Time) bool {
	switch a.Status {
	case StatusCompleted:
		return a.CompletedAt != nil && now.Sub(*a.CompletedAt) > RetentionPeriod
	case StatusCancelled:
		return a.CancelledAt != nil && now.Sub(*a.CancelledAt) > RetentionPeriod
	}
	return false
}
