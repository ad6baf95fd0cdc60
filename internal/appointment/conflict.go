package appointment

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultActiveLimit is the maximum number of appointments a single booker
// may hold in pending or postponed status at creation time.
const DefaultActiveLimit = 6

// Candidate is a proposed booking slot checked against existing records.
type Candidate struct {
	DoctorID *uuid.UUID
	Date     string
	Time     string
}

type ConflictResult struct {
	HasConflict bool
	Conflicts   []Appointment
}

// DetectConflicts returns every non-cancelled booking that occupies the
// candidate's practitioner, calendar day, and time slot. A candidate without
// a practitioner never conflicts: walk-in bookings with no assigned doctor
// are intentionally unconstrained.
func DetectConflicts(existing []Appointment, cand Candidate) ConflictResult {
	if cand.DoctorID == nil || *cand.DoctorID == uuid.Nil {
		return ConflictResult{}
	}

	var conflicts []Appointment
	for _, apt := range existing {
		if apt.DoctorID == nil || *apt.DoctorID != *cand.DoctorID {
			continue
		}
		if apt.Status == StatusCancelled {
			continue
		}
		if sameCalendarDay(apt.Date, cand.Date) && apt.Time == cand.Time {
			conflicts = append(conflicts, apt)
		}
	}

	return ConflictResult{
		HasConflict: len(conflicts) > 0,
		Conflicts:   conflicts,
	}
}

type LimitResult struct {
	Valid       bool
	ActiveCount int
	Limit       int
}

// CheckLimit counts the bookings held by email (case-insensitive) that are
// still pending or postponed, and reports whether one more booking would stay
// under the limit. The check is point-in-time: it runs at creation and is not
// re-validated when other appointments change status later.
func CheckLimit(bookings []Appointment, email string, limit int) LimitResult {
	active := 0
	for _, apt := range bookings {
		if !strings.EqualFold(apt.Email, email) {
			continue
		}
		if apt.Status == StatusPending || apt.Status == StatusPostponed {
			active++
		}
	}

	return LimitResult{
		Valid:       active < limit,
		ActiveCount: active,
		Limit:       limit,
	}
}
