package services

import (
	"github.com/rs/zerolog"
	appauth "github.com/yigit/volunteerhub/internal/app/auth"
	"github.com/yigit/volunteerhub/internal/pkg/auth"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
	"github.com/yigit/volunteerhub/internal/pkg/filestorage"
)

// Dependencies are the collaborators shared by all services
type Dependencies struct {
	UnitOfWork  UnitOfWork
	JWT         *auth.JWTService
	Images      filestorage.ImageStore
	ImageFolder string
	Distance    DistanceResolver
	Clock       clock.Clock
	Logger      zerolog.Logger
}

// Services holds every application service
type Services struct {
	Auth          *AuthService
	Volunteer     *VolunteerService
	Event         *EventService
	Participation *ParticipationService
	Feedback      *FeedbackService
	Completion    *CompletionService
	Dashboard     *DashboardService
}

// NewServices wires the services from deps
func NewServices(deps Dependencies) *Services {
	authz := appauth.NewAuthorizationService(deps.UnitOfWork.Stores().Users)
	return &Services{
		Auth:          NewAuthService(deps.UnitOfWork, deps.JWT, deps.Clock, deps.Logger),
		Volunteer:     NewVolunteerService(deps.UnitOfWork, deps.Clock, deps.Logger),
		Event:         NewEventService(deps.UnitOfWork, authz, deps.Images, deps.ImageFolder, deps.Clock, deps.Logger),
		Participation: NewParticipationService(deps.UnitOfWork, deps.Clock, deps.Logger),
		Feedback:      NewFeedbackService(deps.UnitOfWork, deps.Logger),
		Completion:    NewCompletionService(deps.UnitOfWork, deps.Clock, deps.Logger),
		Dashboard:     NewDashboardService(deps.UnitOfWork, deps.Distance, deps.Clock, deps.Logger),
	}
}
