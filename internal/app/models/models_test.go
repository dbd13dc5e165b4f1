package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
)

func f64(v float64) *float64 { return &v }

func validEvent() *Event {
	return &Event{
		Name:            "Beach Cleanup",
		Type:            "Cleanup",
		Date:            time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       9 * time.Hour,
		DurationHours:   3,
		MaxParticipants: 20,
	}
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed), "expected validation error, got %v", err)
}

func TestEvent_Validate(t *testing.T) {
	assert.NoError(t, validEvent().Validate())

	tests := []struct {
		name   string
		mutate func(e *Event)
	}{
		{"duration zero", func(e *Event) { e.DurationHours = 0 }},
		{"duration 25", func(e *Event) { e.DurationHours = 25 }},
		{"capacity zero", func(e *Event) { e.MaxParticipants = 0 }},
		{"capacity 1001", func(e *Event) { e.MaxParticipants = 1001 }},
		{"latitude out of range", func(e *Event) { e.Latitude, e.Longitude = f64(91), f64(0) }},
		{"only latitude", func(e *Event) { e.Latitude = f64(10) }},
		{"missing name", func(e *Event) { e.Name = "" }},
		{"time past midnight", func(e *Event) { e.StartTime = 24 * time.Hour }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(e)
			assertValidation(t, e.Validate())
		})
	}

	e := validEvent()
	e.DurationHours, e.MaxParticipants = 24, 1000
	assert.NoError(t, e.Validate())
}

func TestEvent_NormalizeRoundsCoordinates(t *testing.T) {
	e := validEvent()
	e.Name = "  Beach Cleanup "
	e.Latitude, e.Longitude = f64(12.97160049), f64(77.59456789)
	e.Date = time.Date(2024, time.June, 15, 17, 30, 0, 0, time.UTC)

	e.Normalize()

	assert.Equal(t, "Beach Cleanup", e.Name)
	assert.Equal(t, 12.9716, *e.Latitude)
	assert.Equal(t, 77.594568, *e.Longitude)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), e.Date)
}

func TestEvent_CompletedIsComputed(t *testing.T) {
	e := validEvent()
	dayOf := time.Date(2024, time.June, 15, 23, 0, 0, 0, time.UTC)
	dayAfter := time.Date(2024, time.June, 16, 0, 1, 0, 0, time.UTC)

	assert.False(t, e.Completed(dayOf))
	assert.True(t, e.Completed(dayAfter))
	assert.True(t, e.IsPast(dayAfter))

	e.IsCompleted = true
	assert.True(t, e.Completed(dayOf))
}

func TestEvent_StartsAt(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	e := validEvent()
	assert.Equal(t, time.Date(2024, time.June, 15, 9, 0, 0, 0, loc), e.StartsAt(loc))
}

func TestManagerProfile_Validate(t *testing.T) {
	m := &ManagerProfile{OrganizationName: "Green Earth", PhoneNumber: "+919876543210", Age: 30}
	assert.NoError(t, m.Validate())

	for _, phone := range []string{"12345678", "+91-98765-43210", "phone", "+12345678901234567"} {
		bad := *m
		bad.PhoneNumber = phone
		assertValidation(t, bad.Validate())
	}

	young := *m
	young.Age = 17
	assertValidation(t, young.Validate())

	adult := *m
	adult.Age = 18
	assert.NoError(t, adult.Validate())
}

func TestVolunteerProfile_NormalizeAndLocation(t *testing.T) {
	v := &VolunteerProfile{Age: 22, Interests: []string{" Health", "YOUTH", "health", ""}}
	v.Normalize()
	assert.Equal(t, []string{"health", "youth"}, v.Interests)
	assert.Nil(t, v.Location())

	at := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	v.SetLocation(geo.Point{Lat: 12.97160049, Lon: 77.5946}, at)
	assert.Equal(t, &geo.Point{Lat: 12.9716, Lon: 77.5946}, v.Location())
	assert.Equal(t, at, *v.LastLocationUpdate)
	assert.NoError(t, v.Validate())
}

func TestFeedback_Validate(t *testing.T) {
	assert.NoError(t, (&Feedback{Rating: 5, Comment: strings.Repeat("é", 500)}).Validate())
	assertValidation(t, (&Feedback{Rating: 0}).Validate())
	assertValidation(t, (&Feedback{Rating: 6}).Validate())
	assertValidation(t, (&Feedback{Rating: 3, Comment: strings.Repeat("a", 501)}).Validate())
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Asha Rao", (&User{FirstName: "Asha", LastName: "Rao"}).FullName())
	assert.Equal(t, "a@b.c", (&User{Email: "a@b.c"}).FullName())
}
