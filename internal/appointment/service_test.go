package appointment

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-booking/internal/events"
)

// fakeRepo is an in-memory Repository mirroring the query semantics of the
// Postgres implementation.
type fakeRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]Appointment
	services     map[uuid.UUID]bool
	users        map[string]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		appointments: make(map[uuid.UUID]Appointment),
		services:     make(map[uuid.UUID]bool),
		users:        make(map[string]uuid.UUID),
	}
}

func (r *fakeRepo) Create(_ context.Context, apt *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[apt.ID] = *apt
	out := *apt
	return &out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := apt
	return &out, nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Appointment
	for _, apt := range r.appointments {
		if filter.Status != nil && apt.Status != *filter.Status {
			continue
		}
		out = append(out, apt)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, apt *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[apt.ID]; !ok {
		return nil, ErrNotFound
	}
	r.appointments[apt.ID] = *apt
	out := *apt
	return &out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeRepo) FindActiveByEmail(_ context.Context, email string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Appointment
	for _, apt := range r.appointments {
		if !strings.EqualFold(apt.Email, email) {
			continue
		}
		if apt.Status == StatusPending || apt.Status == StatusPostponed {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindByDoctorAndDate(_ context.Context, doctorID uuid.UUID, date string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Appointment
	for _, apt := range r.appointments {
		if apt.DoctorID == nil || *apt.DoctorID != doctorID {
			continue
		}
		if apt.Date != date || apt.Status == StatusCancelled {
			continue
		}
		out = append(out, apt)
	}
	return out, nil
}

func (r *fakeRepo) ServiceExists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.services[id], nil
}

func (r *fakeRepo) FindUserIDByEmail(_ context.Context, email string) (*uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.users[strings.ToLower(email)]; ok {
		out := id
		return &out, nil
	}
	return nil, nil
}

func (r *fakeRepo) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var completed, cancelled int64
	for id, apt := range r.appointments {
		switch {
		case apt.Status == StatusCompleted && apt.CompletedAt != nil && apt.CompletedAt.Before(cutoff):
			delete(r.appointments, id)
			completed++
		case apt.Status == StatusCancelled && apt.CancelledAt != nil && apt.CancelledAt.Before(cutoff):
			delete(r.appointments, id)
			cancelled++
		}
	}
	return completed, cancelled, nil
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, event string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count(event string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e == event {
			n++
		}
	}
	return n
}

func newTestService() (*Service, *fakeRepo, *recordingPublisher, uuid.UUID) {
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, zerolog.Nop())

	serviceID := uuid.New()
	repo.services[serviceID] = true
	return svc, repo, pub, serviceID
}

func validCreate(serviceID uuid.UUID) CreateCommand {
	return CreateCommand{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "9876543210",
		ServiceID: serviceID,
		Date:      "2025-03-10",
		Time:      "10:00 AM",
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, repo, pub, serviceID := newTestService()

		userID := uuid.New()
		repo.users["jane@example.com"] = userID

		apt, err := svc.Create(ctx, validCreate(serviceID))
		require.NoError(t, err)

		assert.Equal(t, StatusPending, apt.Status)
		assert.Equal(t, "9876543210", apt.Phone)
		require.NotNil(t, apt.UserID)
		assert.Equal(t, userID, *apt.UserID)
		assert.Nil(t, apt.CompletedAt)
		assert.Nil(t, apt.CancelledAt)

		want := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)
		assert.True(t, apt.ScheduledAt.Equal(want))

		assert.Equal(t, 1, pub.count(events.AppointmentCreated))
	})

	t.Run("phone is canonicalized", func(t *testing.T) {
		svc, _, _, serviceID := newTestService()

		cmd := validCreate(serviceID)
		cmd.Phone = "(987) 654-3210"
		apt, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, "9876543210", apt.Phone)
	})

	t.Run("walk-in without account leaves userId nil", func(t *testing.T) {
		svc, _, _, serviceID := newTestService()

		apt, err := svc.Create(ctx, validCreate(serviceID))
		require.NoError(t, err)
		assert.Nil(t, apt.UserID)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _, serviceID := newTestService()

		cmd := validCreate(serviceID)
		cmd.Email = ""
		_, err := svc.Create(ctx, cmd)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("invalid phone", func(t *testing.T) {
		svc, _, _, serviceID := newTestService()

		cmd := validCreate(serviceID)
		cmd.Phone = "5876543210"
		_, err := svc.Create(ctx, cmd)
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, _, _, serviceID := newTestService()

		cmd := validCreate(serviceID)
		cmd.Email = "not-an-email"
		_, err := svc.Create(ctx, cmd)
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _, serviceID := newTestService()

		cmd := validCreate(serviceID)
		cmd.Status = Status("archived")
		_, err := svc.Create(ctx, cmd)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown service", func(t *testing.T) {
		svc, _, _, _ := newTestService()

		cmd := validCreate(uuid.New())
		_, err := svc.Create(ctx, cmd)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("malformed time is not a validation sentinel", func(t *testing.T) {
		svc, _, _, serviceID := newTestService()

		cmd := validCreate(serviceID)
		cmd.Time = "25:00"
		_, err := svc.Create(ctx, cmd)
		assert.ErrorIs(t, err, ErrMalformedTime)
	})
}

func TestServiceCreateLimit(t *testing.T) {
	ctx := context.Background()
	svc, _, _, serviceID := newTestService()

	// Six active bookings fill the allowance.
	for i := 0; i < DefaultActiveLimit; i++ {
		cmd := validCreate(serviceID)
		cmd.Date = "2025-03-1" + string(rune('0'+i))
		_, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
	}

	cmd := validCreate(serviceID)
	cmd.Date = "2025-04-01"
	_, err := svc.Create(ctx, cmd)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	// Case variation of the same email counts against the same allowance.
	cmd.Email = "JANE@EXAMPLE.COM"
	_, err = svc.Create(ctx, cmd)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	// A different booker is unaffected.
	cmd.Email = "other@example.com"
	_, err = svc.Create(ctx, cmd)
	assert.NoError(t, err)
}

func TestServiceCreateLimitFreedByCompletion(t *testing.T) {
	ctx := context.Background()
	svc, _, _, serviceID := newTestService()

	var first *Appointment
	for i := 0; i < DefaultActiveLimit; i++ {
		cmd := validCreate(serviceID)
		cmd.Date = "2025-03-1" + string(rune('0'+i))
		apt, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
		if first == nil {
			first = apt
		}
	}

	completed := StatusCompleted
	_, err := svc.Update(ctx, first.ID, UpdateCommand{Status: &completed})
	require.NoError(t, err)

	cmd := validCreate(serviceID)
	cmd.Date = "2025-04-01"
	_, err = svc.Create(ctx, cmd)
	assert.NoError(t, err)
}

func TestServiceCreateConflict(t *testing.T) {
	ctx := context.Background()
	svc, _, _, serviceID := newTestService()

	doctorID := uuid.New()

	cmd := validCreate(serviceID)
	cmd.DoctorID = &doctorID
	_, err := svc.Create(ctx, cmd)
	require.NoError(t, err)

	t.Run("same slot rejected", func(t *testing.T) {
		dup := validCreate(serviceID)
		dup.Email = "other@example.com"
		dup.DoctorID = &doctorID
		_, err := svc.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("no doctor bypasses the check", func(t *testing.T) {
		dup := validCreate(serviceID)
		dup.Email = "other@example.com"
		_, err := svc.Create(ctx, dup)
		assert.NoError(t, err)
	})

	t.Run("different time admitted", func(t *testing.T) {
		dup := validCreate(serviceID)
		dup.Email = "third@example.com"
		dup.DoctorID = &doctorID
		dup.Time = "11:00 AM"
		_, err := svc.Create(ctx, dup)
		assert.NoError(t, err)
	})
}

func TestServiceUpdateStamping(t *testing.T) {
	ctx := context.Background()
	svc, _, pub, serviceID := newTestService()

	apt, err := svc.Create(ctx, validCreate(serviceID))
	require.NoError(t, err)

	completed := StatusCompleted
	pending := StatusPending

	updated, err := svc.Update(ctx, apt.ID, UpdateCommand{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	firstStamp := *updated.CompletedAt
	assert.Nil(t, updated.CancelledAt)
	assert.Equal(t, 1, pub.count(events.AppointmentStatusChanged))

	// Leaving the terminal state does not clear the stamp.
	updated, err = svc.Update(ctx, apt.ID, UpdateCommand{Status: &pending})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, updated.CompletedAt.Equal(firstStamp))

	// Re-entering does not re-stamp.
	updated, err = svc.Update(ctx, apt.ID, UpdateCommand{Status: &completed})
	require.NoError(t, err)
	assert.True(t, updated.CompletedAt.Equal(firstStamp))

	// Setting the same status again emits no extra statusChanged event.
	before := pub.count(events.AppointmentStatusChanged)
	_, err = svc.Update(ctx, apt.ID, UpdateCommand{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, before, pub.count(events.AppointmentStatusChanged))
}

func TestServiceUpdateCancelledStamp(t *testing.T) {
	ctx := context.Background()
	svc, _, _, serviceID := newTestService()

	apt, err := svc.Create(ctx, validCreate(serviceID))
	require.NoError(t, err)

	cancelled := StatusCancelled
	updated, err := svc.Update(ctx, apt.ID, UpdateCommand{Status: &cancelled})
	require.NoError(t, err)
	require.NotNil(t, updated.CancelledAt)
	assert.Nil(t, updated.CompletedAt)
}

func TestServiceUpdateReschedule(t *testing.T) {
	ctx := context.Background()
	svc, _, _, serviceID := newTestService()

	apt, err := svc.Create(ctx, validCreate(serviceID))
	require.NoError(t, err)

	newTime := "03:15 PM"
	updated, err := svc.Update(ctx, apt.ID, UpdateCommand{Time: &newTime})
	require.NoError(t, err)

	want := time.Date(2025, 3, 10, 15, 15, 0, 0, time.Local)
	assert.True(t, updated.ScheduledAt.Equal(want))

	newDate := "2025-03-12"
	updated, err = svc.Update(ctx, apt.ID, UpdateCommand{Date: &newDate})
	require.NoError(t, err)

	want = time.Date(2025, 3, 12, 15, 15, 0, 0, time.Local)
	assert.True(t, updated.ScheduledAt.Equal(want))
}

func TestServiceUpdateNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	pending := StatusPending
	_, err := svc.Update(context.Background(), uuid.New(), UpdateCommand{Status: &pending})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, pub, serviceID := newTestService()

	apt, err := svc.Create(ctx, validCreate(serviceID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, apt.ID))
	assert.Equal(t, 1, pub.count(events.AppointmentDeleted))

	assert.ErrorIs(t, svc.Delete(ctx, apt.ID), ErrNotFound)
}

func TestServiceBulkTransition(t *testing.T) {
	ctx := context.Background()
	svc, _, pub, serviceID := newTestService()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		cmd := validCreate(serviceID)
		cmd.Email = "bulk" + string(rune('0'+i)) + "@example.com"
		apt, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
		ids = append(ids, apt.ID)
	}

	// Two unknown ids mixed in.
	ids = append(ids, uuid.New(), uuid.New())

	updatesBefore := pub.count(events.AppointmentUpdated)

	res, err := svc.BulkTransition(ctx, ids, StatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, 3, res.SuccessCount)
	assert.Equal(t, 2, res.FailureCount)
	assert.Len(t, res.Updated, 3)
	for _, apt := range res.Updated {
		assert.Equal(t, StatusCompleted, apt.Status)
		assert.NotNil(t, apt.CompletedAt)
	}

	// One update event per successful item, nothing batch-level.
	assert.Equal(t, updatesBefore+3, pub.count(events.AppointmentUpdated))
	assert.Equal(t, 3, pub.count(events.AppointmentStatusChanged))
}

func TestServiceBulkTransitionInvalidStatus(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.BulkTransition(context.Background(), []uuid.UUID{uuid.New()}, Status("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestServiceCleanupExpired(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService()

	old := time.Now().Add(-31 * 24 * time.Hour)
	recent := time.Now().Add(-29 * 24 * time.Hour)

	put := func(status Status, stamp time.Time) uuid.UUID {
		apt := Appointment{ID: uuid.New(), Status: status}
		switch status {
		case StatusCompleted:
			apt.CompletedAt = &stamp
		case StatusCancelled:
			apt.CancelledAt = &stamp
		}
		repo.appointments[apt.ID] = apt
		return apt.ID
	}

	expiredCompleted := put(StatusCompleted, old)
	expiredCancelled := put(StatusCancelled, old)
	freshCompleted := put(StatusCompleted, recent)
	active := put(StatusPending, old)

	res, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.CompletedDeleted)
	assert.Equal(t, int64(1), res.CancelledDeleted)

	_, err = svc.Get(ctx, expiredCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, expiredCancelled)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, freshCompleted)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, active)
	assert.NoError(t, err)
}

func TestCleanupEligible(t *testing.T) {
	now := time.Now()
	old := now.Add(-31 * 24 * time.Hour)
	recent := now.Add(-29 * 24 * time.Hour)

	assert.True(t, (&Appointment{Status: StatusCompleted, CompletedAt: &old}).CleanupEligible(now))
	assert.True(t, (&Appointment{Status: StatusCancelled, CancelledAt: &old}).CleanupEligible(now))
	assert.False(t, (&Appointment{Status: StatusCompleted, CompletedAt: &recent}).CleanupEligible(now))
	assert.False(t, (&Appointment{Status: StatusCompleted}).CleanupEligible(now))
	assert.False(t, (&Appointment{Status: StatusPending, CompletedAt: &old}).CleanupEligible(now))

	// A stale stamp from an earlier terminal visit does not make an active
	// appointment eligible.
	assert.False(t, (&Appointment{Status: StatusPostponed, CancelledAt: &old}).CleanupEligible(now))
}

func TestServiceListInvalidFilter(t *testing.T) {
	svc, _, _, _ := newTestService()

	bad := Status("archived")
	_, err := svc.List(context.Background(), ListFilter{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
