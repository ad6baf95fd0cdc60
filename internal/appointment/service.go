package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/hospital-booking/internal/events"
	"github.com/medicore/hospital-booking/internal/validate"
)

var (
	ErrMissingFields = errors.New("all required fields must be provided")
	ErrInvalidPhone  = errors.New("phone number must be 10 digits starting with 6, 7, 8, or 9")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrInvalidStatus = errors.New("invalid appointment status")
	ErrLimitExceeded = errors.New("maximum 6 active appointments allowed per user, please complete or cancel existing appointments")
	ErrSlotConflict  = errors.New("time slot already booked")
)

// Service owns the booking flow and the appointment status lifecycle.
type Service struct {
	repo   Repository
	events events.Publisher
	log    zerolog.Logger
	limit  int
}

func NewService(repo Repository, pub events.Publisher, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: pub,
		log:    log,
		limit:  DefaultActiveLimit,
	}
}

type CreateCommand struct {
	Name      string
	Email     string
	Phone     string
	ServiceID uuid.UUID
	DoctorID  *uuid.UUID
	Date      string
	Time      string
	Status    Status
	Details   string
}

// Create runs the booking flow: format validation, limit check, conflict
// check (only when a practitioner is assigned), optional account linking,
// persistence, and event emission. The limit and conflict checks are
// read-then-write with no reservation; two requests racing through the same
// narrow window may both be admitted. That is an accepted best-effort
// guarantee.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Appointment, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Phone == "" ||
		cmd.ServiceID == uuid.Nil || cmd.Date == "" || cmd.Time == "" {
		return nil, ErrMissingFields
	}

	phone, ok := validate.Phone(cmd.Phone)
	if !ok {
		return nil, ErrInvalidPhone
	}
	if !validate.Email(cmd.Email) {
		return nil, ErrInvalidEmail
	}

	status := cmd.Status
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	exists, err := s.repo.ServiceExists(ctx, cmd.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("check service: %w", err)
	}
	if !exists {
		return nil, ErrServiceNotFound
	}

	active, err := s.repo.FindActiveByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("load active bookings: %w", err)
	}
	if res := CheckLimit(active, cmd.Email, s.limit); !res.Valid {
		return nil, ErrLimitExceeded
	}

	if cmd.DoctorID != nil && *cmd.DoctorID != uuid.Nil {
		held, err := s.repo.FindByDoctorAndDate(ctx, *cmd.DoctorID, cmd.Date)
		if err != nil {
			return nil, fmt.Errorf("load doctor bookings: %w", err)
		}
		cand := Candidate{DoctorID: cmd.DoctorID, Date: cmd.Date, Time: cmd.Time}
		if res := DetectConflicts(held, cand); res.HasConflict {
			return nil, ErrSlotConflict
		}
	}

	scheduledAt, err := ComputeScheduledAt(cmd.Date, cmd.Time)
	if err != nil {
		return nil, err
	}

	userID, err := s.repo.FindUserIDByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	now := time.Now()
	apt := &Appointment{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        cmd.Name,
		Email:       cmd.Email,
		Phone:       phone,
		ServiceID:   cmd.ServiceID,
		DoctorID:    cmd.DoctorID,
		Date:        cmd.Date,
		Time:        cmd.Time,
		ScheduledAt: scheduledAt,
		Status:      status,
		Details:     cmd.Details,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, apt)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.publish(ctx, events.AppointmentCreated, created)
	return created, nil
}

// UpdateCommand applies a partial admin edit. Nil fields are left unchanged.
type UpdateCommand struct {
	Name      *string
	Email     *string
	Phone     *string
	ServiceID *uuid.UUID
	Date      *string
	Time      *string
	Status    *Status
	Details   *string
}

// Update edits an appointment and runs the lifecycle stamping rules: the
// first transition into completed stamps CompletedAt, the first into
// cancelled stamps CancelledAt, neither is ever re-stamped or cleared, and a
// date or time change recomputes ScheduledAt from the updated record. Any
// state may move to any other state; the UI hides some paths but the
// transition itself is unrestricted.
func (s *Service) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Appointment, error) {
	apt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := apt.Status

	if cmd.Name != nil && *cmd.Name != "" {
		apt.Name = *cmd.Name
	}
	if cmd.Email != nil && *cmd.Email != "" {
		if !validate.Email(*cmd.Email) {
			return nil, ErrInvalidEmail
		}
		apt.Email = *cmd.Email
	}
	if cmd.Phone != nil && *cmd.Phone != "" {
		phone, ok := validate.Phone(*cmd.Phone)
		if !ok {
			return nil, ErrInvalidPhone
		}
		apt.Phone = phone
	}
	if cmd.ServiceID != nil && *cmd.ServiceID != uuid.Nil {
		exists, err := s.repo.ServiceExists(ctx, *cmd.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("check service: %w", err)
		}
		if !exists {
			return nil, ErrServiceNotFound
		}
		apt.ServiceID = *cmd.ServiceID
	}
	if cmd.Date != nil && *cmd.Date != "" {
		apt.Date = *cmd.Date
	}
	if cmd.Time != nil && *cmd.Time != "" {
		apt.Time = *cmd.Time
	}
	if cmd.Details != nil {
		apt.Details = *cmd.Details
	}

	if cmd.Status != nil && *cmd.Status != "" {
		if !cmd.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		apt.Status = *cmd.Status

		now := time.Now()
		if apt.Status == StatusCompleted && apt.CompletedAt == nil {
			apt.CompletedAt = &now
		}
		if apt.Status == StatusCancelled && apt.CancelledAt == nil {
			apt.CancelledAt = &now
		}
	}

	if cmd.Date != nil || cmd.Time != nil {
		scheduledAt, err := ComputeScheduledAt(apt.Date, apt.Time)
		if err != nil {
			return nil, err
		}
		apt.ScheduledAt = scheduledAt
	}

	apt.UpdatedAt = time.Now()

	updated, err := s.repo.Update(ctx, apt)
	if err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.publish(ctx, events.AppointmentUpdated, updated)
	if cmd.Status != nil && updated.Status != oldStatus {
		s.publish(ctx, events.AppointmentStatusChanged, statusChangedPayload{
			ID:          updated.ID,
			Status:      updated.Status,
			Appointment: updated,
		})
	}

	return updated, nil
}

type statusChangedPayload struct {
	ID          uuid.UUID    `json:"id"`
	Status      Status       `json:"status"`
	Appointment *Appointment `json:"appointment"`
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.AppointmentDeleted, deletedPayload{ID: id})
	return nil
}

type deletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type BulkResult struct {
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
	Updated      []Appointment `json:"updated"`
}

// BulkTransition applies one status change to every id independently. A
// missing id or a per-item failure is tallied and never aborts the rest of
// the batch; each successful transition emits its own update event and there
// is no batch-level event.
func (s *Service) BulkTransition(ctx context.Context, ids []uuid.UUID, status Status) (BulkResult, error) {
	if !status.IsValid() {
		return BulkResult{}, ErrInvalidStatus
	}

	var res BulkResult
	for _, id := range ids {
		updated, err := s.Update(ctx, id, UpdateCommand{Status: &status})
		if err != nil {
			res.FailureCount++
			s.log.Warn().Err(err).Stringer("id", id).Str("status", string(status)).
				Msg("bulk transition item failed")
			continue
		}
		res.SuccessCount++
		res.Updated = append(res.Updated, *updated)
	}

	return res, nil
}

type CleanupResult struct {
	CompletedDeleted int64
	CancelledDeleted int64
}

// CleanupExpired permanently deletes terminal appointments whose terminal
// timestamp is older than the retention period. Deletion is unconditional
// and irreversible.
func (s *Service) CleanupExpired(ctx context.Context) (CleanupResult, error) {
	cutoff := time.Now().Add(-RetentionPeriod)

	completed, cancelled, err := s.repo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("delete expired appointments: %w", err)
	}

	s.log.Info().
		Int64("completed", completed).
		Int64("cancelled", cancelled).
		Time("cutoff", cutoff).
		Msg("cleanup sweep finished")

	return CleanupResult{CompletedDeleted: completed, CancelledDeleted: cancelled}, nil
}

func (s *Service) publish(ctx context.Context, event string, payload any) {
	if err := s.events.Publish(ctx, event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("event publish failed")
	}
}
