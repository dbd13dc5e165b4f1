package services

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
)

var testNow = time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)

func fixedClock() clock.Clock { return clock.Fixed(testNow) }

func nop() zerolog.Logger { return zerolog.Nop() }

func f64(v float64) *float64 { return &v }

func day(offset int) time.Time {
	return time.Date(2024, time.June, 10+offset, 0, 0, 0, 0, time.UTC)
}

func event(managerID int64, name, category string, offset int, capacity int) models.Event {
	return models.Event{
		ManagerID:       managerID,
		Name:            name,
		Type:            category,
		Date:            day(offset),
		StartTime:       9 * time.Hour,
		DurationHours:   2,
		MaxParticipants: capacity,
	}
}
