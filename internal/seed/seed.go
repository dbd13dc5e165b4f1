// Package seed creates demo accounts and events for local development.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/volunteerhub/internal/app/models/dto"
	appServices "github.com/yigit/volunteerhub/internal/app/services"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
)

// DemoPassword is shared by every seeded account
const DemoPassword = "Volunteer#2024"

// Demo account emails
const (
	ManagerEmail   = "manager@volunteerhub.local"
	VolunteerEmail = "volunteer@volunteerhub.local"
)

type demoEvent struct {
	name      string
	category  string
	dayOffset int
	time      string
	hours     int
	capacity  int
	lat, lon  float64
}

// Events are spread around central Bengaluru so the distance buckets fill up
var demoEvents = []demoEvent{
	{"Cubbon Park Cleanup", "Cleanup", 1, "07:30", 3, 40, 12.9763, 77.5929},
	{"Free Health Camp", "Health Camp", 3, "09:00", 6, 25, 12.9716, 77.5946},
	{"Youth Mentoring Circle", "Youth Mentoring", 5, "16:00", 2, 15, 12.9352, 77.6245},
	{"Lakeside Tree Planting", "Tree Planting", 8, "08:00", 4, 60, 13.0358, 77.5970},
	{"Blood Donation Drive", "Blood Donation", 12, "10:00", 5, 100, 12.8452, 77.6602},
}

// Services is the subset of the application services used for seeding
type Services struct {
	Auth  *appServices.AuthService
	Event *appServices.EventService
}

// CreateDemoData registers a demo manager and volunteer and publishes a handful of
// events. Accounts that already exist are left untouched, so running it twice is safe.
func CreateDemoData(ctx context.Context, svc Services, now clock.Clock, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo data...")
	var finalErr error

	managerID, created, err := ensureManager(ctx, svc.Auth)
	if err != nil {
		return fmt.Errorf("seed manager: %w", err)
	}

	if created {
		today := clock.DateOf(now())
		for _, de := range demoEvents {
			lat, lon := de.lat, de.lon
			req := &dto.EventRequest{
				Name:            de.name,
				Type:            de.category,
				Address:         "Bengaluru",
				Date:            today.AddDate(0, 0, de.dayOffset).Format(clock.DateLayout),
				Time:            de.time,
				DurationHours:   de.hours,
				MaxParticipants: de.capacity,
				Latitude:        &lat,
				Longitude:       &lon,
			}
			if _, err := svc.Event.CreateEvent(ctx, managerID, req, nil); err != nil {
				lgr.Error().Err(err).Str("event", de.name).Msg("Error creating demo event")
				finalErr = errors.Join(finalErr, err)
			}
		}
		lgr.Info().Int("events", len(demoEvents)).Msg("Demo events created")
	} else {
		lgr.Info().Msg("Demo manager already exists, skipping events")
	}

	lat, lon := 12.9716, 77.5946
	_, err = svc.Auth.RegisterVolunteer(ctx, &dto.RegisterVolunteerRequest{
		Email:      VolunteerEmail,
		Password:   DemoPassword,
		FirstName:  "Asha",
		LastName:   "Rao",
		Age:        24,
		Profession: "Nurse",
		Interests:  []string{"health", "youth"},
		Latitude:   &lat,
		Longitude:  &lon,
	})
	if err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating demo volunteer")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr != nil {
		lgr.Warn().Err(finalErr).Msg("Demo data seeding completed with errors")
	} else {
		lgr.Info().Msg("Demo data checked/created")
	}
	return finalErr
}

func ensureManager(ctx context.Context, auth *appServices.AuthService) (int64, bool, error) {
	resp, err := auth.RegisterManager(ctx, &dto.RegisterManagerRequest{
		Email:            ManagerEmail,
		Password:         DemoPassword,
		FirstName:        "Ravi",
		LastName:         "Kumar",
		OrganizationName: "Green Bengaluru Trust",
		PhoneNumber:      "+919876543210",
		Age:              35,
	})
	if err == nil {
		return resp.User.ID, true, nil
	}
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return 0, false, err
	}

	resp, err = auth.Login(ctx, &dto.LoginRequest{Email: ManagerEmail, Password: DemoPassword})
	if err != nil {
		return 0, false, err
	}
	return resp.User.ID, false, nil
}
