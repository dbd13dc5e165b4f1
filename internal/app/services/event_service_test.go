package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/volunteerhub/internal/app/auth"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/filestorage"
)

type fakeImages struct {
	saved   []string
	deleted []string
	failDel bool
}

func (f *fakeImages) Save(_ context.Context, fh *multipart.FileHeader, folder string) (*filestorage.StoredImage, error) {
	path := folder + "/" + fh.Filename
	f.saved = append(f.saved, path)
	return &filestorage.StoredImage{Path: path, URL: "https://img.example/" + path}, nil
}

func (f *fakeImages) Delete(_ context.Context, path string) error {
	if f.failDel {
		return errors.New("storage offline")
	}
	f.deleted = append(f.deleted, path)
	return nil
}

func newEventService(db *memDB, images filestorage.ImageStore) *EventService {
	authz := appauth.NewAuthorizationService(db.Stores().Users)
	return NewEventService(db, authz, images, "event_images", fixedClock(), nop())
}

func eventRequest() *dto.EventRequest {
	return &dto.EventRequest{
		Name:            " Beach Cleanup ",
		Type:            "Cleanup",
		Date:            "2024-06-15",
		Time:            "09:30",
		DurationHours:   3,
		MaxParticipants: 2,
		Latitude:        f64(12.97160049),
		Longitude:       f64(77.5946),
	}
}

func TestCreateEvent(t *testing.T) {
	db := newMemDB()
	m := db.addManager("Meera")
	images := &fakeImages{}
	svc := newEventService(db, images)

	resp, err := svc.CreateEvent(context.Background(), m, eventRequest(), &multipart.FileHeader{Filename: "camp.png", Size: 1024})
	require.NoError(t, err)

	assert.Equal(t, "Beach Cleanup", resp.Name)
	assert.Equal(t, "2024-06-15", resp.Date)
	assert.Equal(t, "09:30", resp.Time)
	assert.Equal(t, 12.9716, *resp.Latitude)
	assert.False(t, resp.IsCompleted)
	assert.Zero(t, resp.ParticipantCount)
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, "https://img.example/event_images/camp.png", *resp.ImageURL)

	stored := db.event(resp.ID)
	assert.Equal(t, m, stored.ManagerID)
	assert.Equal(t, []string{"event_images/camp.png"}, images.saved)
}

func TestCreateEvent_Rejections(t *testing.T) {
	db := newMemDB()
	m := db.addManager("Meera")
	v := db.addVolunteer("Asha", nil, nil, nil)
	svc := newEventService(db, &fakeImages{})

	_, err := svc.CreateEvent(context.Background(), v, eventRequest(), nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	tests := []struct {
		name   string
		mutate func(r *dto.EventRequest)
	}{
		{"bad date", func(r *dto.EventRequest) { r.Date = "15/06/2024" }},
		{"bad time", func(r *dto.EventRequest) { r.Time = "25:00" }},
		{"duration", func(r *dto.EventRequest) { r.DurationHours = 25 }},
		{"capacity", func(r *dto.EventRequest) { r.MaxParticipants = 1001 }},
		{"half a location", func(r *dto.EventRequest) { r.Longitude = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := eventRequest()
			tt.mutate(req)
			_, err := svc.CreateEvent(context.Background(), m, req, nil)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}

	_, err = svc.CreateEvent(context.Background(), m, eventRequest(), &multipart.FileHeader{Filename: "notes.txt", Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateEvent(t *testing.T) {
	db := newMemDB()
	m := db.addManager("Meera")
	other := db.addManager("Omar")
	e := event(m, "Cleanup", "Cleanup", 5, 3)
	oldPath, oldURL := "event_images/old.png", "https://img.example/event_images/old.png"
	e.ImagePath, e.ImageURL = &oldPath, &oldURL
	id := db.addEvent(e)
	a := db.addVolunteer("Asha", nil, nil, nil)
	b := db.addVolunteer("Ravi", nil, nil, nil)
	db.setState(id, a, models.StateParticipant)
	db.setState(id, b, models.StateParticipant)

	images := &fakeImages{}
	svc := newEventService(db, images)

	t.Run("other manager", func(t *testing.T) {
		_, err := svc.UpdateEvent(context.Background(), other, id, eventRequest(), &multipart.FileHeader{Filename: "new.png", Size: 1})
		assert.ErrorIs(t, err, apperrors.ErrNotEventManager)
		// the fresh upload is discarded and the event untouched
		assert.Equal(t, []string{"event_images/new.png"}, images.deleted)
		assert.Equal(t, "Cleanup", db.event(id).Name)
		images.deleted = nil
	})

	t.Run("capacity below participants", func(t *testing.T) {
		req := eventRequest()
		req.MaxParticipants = 1
		_, err := svc.UpdateEvent(context.Background(), m, id, req, nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Equal(t, 3, db.event(id).MaxParticipants)
	})

	t.Run("replaces image", func(t *testing.T) {
		resp, err := svc.UpdateEvent(context.Background(), m, id, eventRequest(), &multipart.FileHeader{Filename: "new.png", Size: 1})
		require.NoError(t, err)
		assert.Equal(t, "Beach Cleanup", resp.Name)
		assert.Equal(t, 2, resp.MaxParticipants)
		assert.Equal(t, 2, resp.ParticipantCount)
		assert.Equal(t, 100.0, resp.ParticipationPercentage)
		assert.Equal(t, []string{oldPath}, images.deleted)
		assert.Equal(t, "event_images/new.png", *db.event(id).ImagePath)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := svc.UpdateEvent(context.Background(), m, 999, eventRequest(), nil)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestGetEventDetail(t *testing.T) {
	db := newMemDB()
	m := db.addManager("Meera")
	id := db.addEvent(event(m, "Cleanup", "Cleanup", 2, 4))
	v := db.addVolunteer("Asha", nil, nil, nil)
	db.setState(id, v, models.StateRequested)
	p := db.addVolunteer("Ravi", nil, nil, nil)
	db.setState(id, p, models.StateParticipant)
	svc := newEventService(db, &fakeImages{})

	detail, err := svc.GetEventDetail(context.Background(), id, v)
	require.NoError(t, err)
	assert.True(t, detail.HasRequested)
	assert.False(t, detail.IsParticipant)
	assert.False(t, detail.IsManager)
	assert.False(t, detail.IsPast)
	assert.Equal(t, models.StateRequested, detail.State)
	assert.Equal(t, 1, detail.ParticipantCount)
	assert.Equal(t, 25.0, detail.ParticipationPercentage)

	detail, err = svc.GetEventDetail(context.Background(), id, m)
	require.NoError(t, err)
	assert.True(t, detail.IsManager)
	assert.Equal(t, models.StateNone, detail.State)

	_, err = svc.GetEventDetail(context.Background(), 999, v)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestListEvents_SplitsPastAndUpcoming(t *testing.T) {
	db := newMemDB()
	m := db.addManager("Meera")
	past := db.addEvent(event(m, "Past", "Cleanup", -1, 4))
	today := db.addEvent(event(m, "Today", "Cleanup", 0, 4))
	future := db.addEvent(event(m, "Future", "Cleanup", 3, 4))
	svc := newEventService(db, &fakeImages{})

	resp, err := svc.ListEvents(context.Background(), 1, 10)
	require.NoError(t, err)

	require.Len(t, resp.Upcoming, 2)
	assert.Equal(t, future, resp.Upcoming[0].ID)
	assert.Equal(t, today, resp.Upcoming[1].ID)
	require.Len(t, resp.Past, 1)
	assert.Equal(t, past, resp.Past[0].ID)
	assert.True(t, resp.Past[0].IsCompleted)
	assert.Equal(t, int64(3), resp.Pagination.TotalItems)
	assert.Equal(t, 1, resp.Pagination.TotalPages)

	page2, err := svc.ListEvents(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Empty(t, page2.Upcoming)
	require.Len(t, page2.Past, 1)
	assert.Equal(t, 2, page2.Pagination.TotalPages)
}

func TestManagerDashboard(t *testing.T) {
	db := newMemDB()
	m := db.addManager("Meera")
	other := db.addManager("Omar")
	past := db.addEvent(event(m, "Past", "Cleanup", -2, 4))
	upcoming := db.addEvent(event(m, "Upcoming", "Cleanup", 2, 4))
	db.addEvent(event(other, "Not mine", "Cleanup", 2, 4))

	a := db.addVolunteer("Asha", nil, nil, nil)
	b := db.addVolunteer("Ravi", nil, nil, nil)
	db.setState(past, a, models.StateParticipant)
	db.setState(past, b, models.StateParticipant)
	feedback := NewFeedbackService(db, nop())
	_, err := feedback.SubmitFeedback(context.Background(), past, a, &dto.FeedbackRequest{Rating: 4})
	require.NoError(t, err)
	_, err = feedback.SubmitFeedback(context.Background(), past, b, &dto.FeedbackRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	svc := newEventService(db, &fakeImages{})
	resp, err := svc.ManagerDashboard(context.Background(), m)
	require.NoError(t, err)

	require.Len(t, resp.Upcoming, 1)
	assert.Equal(t, upcoming, resp.Upcoming[0].Event.ID)
	assert.Nil(t, resp.Upcoming[0].AverageRating)
	assert.Empty(t, resp.Upcoming[0].Feedback)

	require.Len(t, resp.Past, 1)
	item := resp.Past[0]
	assert.Equal(t, 2, item.Event.ParticipantCount)
	require.NotNil(t, item.AverageRating)
	assert.Equal(t, 4.5, *item.AverageRating)
	require.Len(t, item.Feedback, 2)
	assert.Equal(t, "Asha Volunteer", item.Feedback[0].VolunteerName)

	_, err = svc.ManagerDashboard(context.Background(), a)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
