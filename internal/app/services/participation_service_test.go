package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
)

type participationFixture struct {
	db      *memDB
	svc     *ParticipationService
	manager int64
	event   int64
}

func newParticipationFixture(capacity int) *participationFixture {
	db := newMemDB()
	manager := db.addManager("Meera")
	return &participationFixture{
		db:      db,
		svc:     NewParticipationService(db, fixedClock(), nop()),
		manager: manager,
		event:   db.addEvent(event(manager, "Beach Cleanup", "Cleanup", 3, capacity)),
	}
}

func TestRequestParticipation(t *testing.T) {
	ctx := context.Background()
	f := newParticipationFixture(5)
	v := f.db.addVolunteer("Asha", nil, nil, nil)

	resp, err := f.svc.RequestParticipation(ctx, f.event, v)
	require.NoError(t, err)
	assert.Equal(t, models.StateRequested, resp.State)
	assert.Equal(t, models.StateRequested, f.db.state(f.event, v))

	// asking again while pending changes nothing
	_, err = f.svc.RequestParticipation(ctx, f.event, v)
	require.NoError(t, err)
	assert.Equal(t, models.StateRequested, f.db.state(f.event, v))
}

func TestRequestParticipation_LaterToday(t *testing.T) {
	f := newParticipationFixture(5)
	evening := event(f.manager, "Evening Food Drive", "Food", 0, 5)
	evening.StartTime = 18 * time.Hour
	id := f.db.addEvent(evening)
	v := f.db.addVolunteer("Asha", nil, nil, nil)

	resp, err := f.svc.RequestParticipation(context.Background(), id, v)
	require.NoError(t, err)
	assert.Equal(t, models.StateRequested, resp.State)
}

func TestRequestParticipation_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("already participant", func(t *testing.T) {
		f := newParticipationFixture(5)
		v := f.db.addVolunteer("Asha", nil, nil, nil)
		f.db.setState(f.event, v, models.StateParticipant)

		_, err := f.svc.RequestParticipation(ctx, f.event, v)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyParticipant)
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	})

	t.Run("rejected is final", func(t *testing.T) {
		f := newParticipationFixture(5)
		v := f.db.addVolunteer("Asha", nil, nil, nil)
		f.db.setState(f.event, v, models.StateRejected)

		_, err := f.svc.RequestParticipation(ctx, f.event, v)
		assert.ErrorIs(t, err, apperrors.ErrRequestRejected)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Equal(t, models.StateRejected, f.db.state(f.event, v))
	})

	t.Run("event full", func(t *testing.T) {
		f := newParticipationFixture(1)
		first := f.db.addVolunteer("Asha", nil, nil, nil)
		f.db.setState(f.event, first, models.StateParticipant)
		v := f.db.addVolunteer("Ravi", nil, nil, nil)

		_, err := f.svc.RequestParticipation(ctx, f.event, v)
		assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
		assert.Equal(t, models.StateNone, f.db.state(f.event, v))
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newParticipationFixture(1)
		v := f.db.addVolunteer("Asha", nil, nil, nil)

		_, err := f.svc.RequestParticipation(ctx, 999, v)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("past event", func(t *testing.T) {
		f := newParticipationFixture(5)
		past := f.db.addEvent(event(f.manager, "Old Drive", "Food", -1, 5))
		v := f.db.addVolunteer("Asha", nil, nil, nil)

		_, err := f.svc.RequestParticipation(ctx, past, v)
		assert.ErrorIs(t, err, apperrors.ErrEventClosed)
	})

	t.Run("started earlier today", func(t *testing.T) {
		f := newParticipationFixture(5)
		// starts 09:00, the clock reads 10:00 on the same day
		started := f.db.addEvent(event(f.manager, "Morning Walk", "Health", 0, 5))
		v := f.db.addVolunteer("Asha", nil, nil, nil)

		_, err := f.svc.RequestParticipation(ctx, started, v)
		assert.ErrorIs(t, err, apperrors.ErrEventClosed)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Equal(t, models.StateNone, f.db.state(started, v))
	})

	t.Run("managers cannot request", func(t *testing.T) {
		f := newParticipationFixture(5)

		_, err := f.svc.RequestParticipation(ctx, f.event, f.manager)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()
	f := newParticipationFixture(2)
	v := f.db.addVolunteer("Asha", nil, nil, nil)
	f.db.setState(f.event, v, models.StateRequested)

	resp, err := f.svc.ApproveRequest(ctx, f.event, v, f.manager)
	require.NoError(t, err)
	assert.Equal(t, models.StateParticipant, resp.State)
	assert.Equal(t, models.StateParticipant, f.db.state(f.event, v))

	audit := f.db.auditRows()
	require.Len(t, audit, 1)
	assert.Equal(t, models.DecisionApproved, audit[0].Status)
	assert.Equal(t, f.manager, audit[0].ManagerID)
	require.NotNil(t, audit[0].ApprovedAt)
	assert.Equal(t, testNow, *audit[0].ApprovedAt)

	// approving twice reports the existing participation
	_, err = f.svc.ApproveRequest(ctx, f.event, v, f.manager)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyParticipant)
}

func TestApproveRequest_Guards(t *testing.T) {
	ctx := context.Background()

	t.Run("other manager", func(t *testing.T) {
		f := newParticipationFixture(2)
		other := f.db.addManager("Kiran")
		v := f.db.addVolunteer("Asha", nil, nil, nil)
		f.db.setState(f.event, v, models.StateRequested)

		_, err := f.svc.ApproveRequest(ctx, f.event, v, other)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		assert.Equal(t, models.StateRequested, f.db.state(f.event, v))
		assert.Empty(t, f.db.auditRows())
	})

	t.Run("no request", func(t *testing.T) {
		f := newParticipationFixture(2)
		v := f.db.addVolunteer("Asha", nil, nil, nil)

		_, err := f.svc.ApproveRequest(ctx, f.event, v, f.manager)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("rejected", func(t *testing.T) {
		f := newParticipationFixture(2)
		v := f.db.addVolunteer("Asha", nil, nil, nil)
		f.db.setState(f.event, v, models.StateRejected)

		_, err := f.svc.ApproveRequest(ctx, f.event, v, f.manager)
		assert.ErrorIs(t, err, apperrors.ErrRequestRejected)
	})

	t.Run("full", func(t *testing.T) {
		f := newParticipationFixture(1)
		in := f.db.addVolunteer("Asha", nil, nil, nil)
		f.db.setState(f.event, in, models.StateParticipant)
		v := f.db.addVolunteer("Ravi", nil, nil, nil)
		f.db.setState(f.event, v, models.StateRequested)

		_, err := f.svc.ApproveRequest(ctx, f.event, v, f.manager)
		assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
		assert.Equal(t, models.StateRequested, f.db.state(f.event, v))
		assert.Empty(t, f.db.auditRows())
	})
}

func TestApproveRequest_ConcurrentLastSeat(t *testing.T) {
	ctx := context.Background()
	f := newParticipationFixture(1)
	a := f.db.addVolunteer("Asha", nil, nil, nil)
	b := f.db.addVolunteer("Ravi", nil, nil, nil)
	f.db.setState(f.event, a, models.StateRequested)
	f.db.setState(f.event, b, models.StateRequested)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, v := range []int64{a, b} {
		wg.Add(1)
		go func(i int, v int64) {
			defer wg.Done()
			_, errs[i] = f.svc.ApproveRequest(ctx, f.event, v, f.manager)
		}(i, v)
	}
	wg.Wait()

	succeeded, full := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
		full++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, full)

	participants := 0
	for _, v := range []int64{a, b} {
		if f.db.state(f.event, v) == models.StateParticipant {
			participants++
		}
	}
	assert.Equal(t, 1, participants)
	assert.Len(t, f.db.auditRows(), 1)
}

func TestRejectRequest(t *testing.T) {
	ctx := context.Background()
	f := newParticipationFixture(2)
	v := f.db.addVolunteer("Asha", nil, nil, nil)
	f.db.setState(f.event, v, models.StateRequested)

	resp, err := f.svc.RejectRequest(ctx, f.event, v, f.manager)
	require.NoError(t, err)
	assert.Equal(t, models.StateRejected, resp.State)

	audit := f.db.auditRows()
	require.Len(t, audit, 1)
	assert.Equal(t, models.DecisionRejected, audit[0].Status)
	assert.Nil(t, audit[0].ApprovedAt)

	_, err = f.svc.RejectRequest(ctx, f.event, v, f.manager)
	assert.ErrorIs(t, err, apperrors.ErrRequestRejected)

	_, err = f.svc.RequestParticipation(ctx, f.event, v)
	assert.ErrorIs(t, err, apperrors.ErrRequestRejected)
}

func TestListRequests(t *testing.T) {
	ctx := context.Background()
	f := newParticipationFixture(5)
	pending := f.db.addVolunteer("Asha", nil, nil, nil)
	approved := f.db.addVolunteer("Ravi", nil, nil, nil)
	rejected := f.db.addVolunteer("Divya", nil, nil, nil)
	f.db.setState(f.event, pending, models.StateRequested)
	f.db.setState(f.event, approved, models.StateParticipant)
	f.db.setState(f.event, rejected, models.StateRejected)

	resp, err := f.svc.ListRequests(ctx, f.event, f.manager)
	require.NoError(t, err)
	require.Len(t, resp.Pending, 1)
	assert.Equal(t, pending, resp.Pending[0].UserID)
	assert.Equal(t, "Asha Volunteer", resp.Pending[0].FullName)
	require.Len(t, resp.Approved, 1)
	assert.Equal(t, approved, resp.Approved[0].UserID)
	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, rejected, resp.Rejected[0].UserID)

	_, err = f.svc.ListRequests(ctx, f.event, pending)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestMyEvents(t *testing.T) {
	ctx := context.Background()
	f := newParticipationFixture(5)
	later := f.db.addEvent(event(f.manager, "Tree Planting", "Environment", 6, 5))
	elapsed := f.db.addEvent(event(f.manager, "Blood Drive", "Health", -2, 5))
	refused := f.db.addEvent(event(f.manager, "Food Drive", "Food", 4, 5))
	v := f.db.addVolunteer("Asha", nil, nil, nil)
	f.db.setState(f.event, v, models.StateParticipant)
	f.db.setState(elapsed, v, models.StateParticipant)
	f.db.setState(later, v, models.StateRequested)
	f.db.setState(refused, v, models.StateRejected)

	resp, err := f.svc.MyEvents(ctx, v)
	require.NoError(t, err)

	require.Len(t, resp.Participated, 2)
	assert.Equal(t, f.event, resp.Participated[0].ID)
	assert.Equal(t, 1, resp.Participated[0].ParticipantCount)
	assert.False(t, resp.Participated[0].IsCompleted)
	assert.Equal(t, elapsed, resp.Participated[1].ID)
	assert.True(t, resp.Participated[1].IsCompleted, "elapsed events count as completed")

	require.Len(t, resp.Requested, 1)
	assert.Equal(t, later, resp.Requested[0].ID)

	// reading never flags the event
	assert.False(t, f.db.event(elapsed).IsCompleted)
}

func TestCertificate(t *testing.T) {
	ctx := context.Background()
	f := newParticipationFixture(5)
	v := f.db.addVolunteer("Asha", nil, nil, nil)

	_, err := f.svc.Certificate(ctx, f.event, v)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)

	f.db.setState(f.event, v, models.StateParticipant)
	cert, err := f.svc.Certificate(ctx, f.event, v)
	require.NoError(t, err)
	assert.Equal(t, "Beach Cleanup", cert.EventName)
	assert.Equal(t, "June 13, 2024", cert.EventDate)
	assert.Equal(t, "Asha Volunteer", cert.VolunteerName)
	assert.Equal(t, "Cleanup", cert.EventType)
}
