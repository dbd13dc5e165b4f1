// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/middleware"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
)

// AuthService is what the auth and profile handlers need
type AuthService interface {
	RegisterVolunteer(ctx context.Context, req *dto.RegisterVolunteerRequest) (*dto.AuthResponse, error)
	RegisterManager(ctx context.Context, req *dto.RegisterManagerRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// VolunteerService updates volunteer data
type VolunteerService interface {
	UpdateLocation(ctx context.Context, userID int64, lat, lon *float64) (*geo.Point, error)
}

// DashboardService builds volunteer dashboards
type DashboardService interface {
	Dashboard(ctx context.Context, volunteerID int64) (*dto.DashboardResponse, error)
}

// EventService manages events
type EventService interface {
	CreateEvent(ctx context.Context, managerID int64, req *dto.EventRequest, image *multipart.FileHeader) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, managerID, eventID int64, req *dto.EventRequest, image *multipart.FileHeader) (*dto.EventResponse, error)
	GetEventDetail(ctx context.Context, eventID, userID int64) (*dto.EventDetailResponse, error)
	ListEvents(ctx context.Context, page, size int) (*dto.EventListResponse, error)
	ManagerDashboard(ctx context.Context, managerID int64) (*dto.ManagerDashboardResponse, error)
}

// ParticipationService drives the request lifecycle
type ParticipationService interface {
	RequestParticipation(ctx context.Context, eventID, userID int64) (*dto.ParticipationStatusResponse, error)
	ApproveRequest(ctx context.Context, eventID, userID, actingUserID int64) (*dto.ParticipationStatusResponse, error)
	RejectRequest(ctx context.Context, eventID, userID, actingUserID int64) (*dto.ParticipationStatusResponse, error)
	ListRequests(ctx context.Context, eventID, actingUserID int64) (*dto.ParticipationRequestsResponse, error)
	MyEvents(ctx context.Context, userID int64) (*dto.MyEventsResponse, error)
	Certificate(ctx context.Context, eventID, userID int64) (*dto.CertificateResponse, error)
}

// FeedbackService records event feedback
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, eventID, volunteerID int64, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
}

// idParam parses a positive int64 path parameter, writing a 400 when it is malformed
func idParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(name, "invalid "+name))
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user id, writing a 401 when there is none
func currentUser(ctx *gin.Context) (int64, bool) {
	id, ok := middleware.UserID(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

// optionalImage returns the uploaded "image" file, nil when the request carries none
func optionalImage(ctx *gin.Context) (*multipart.FileHeader, error) {
	if ctx.ContentType() != "multipart/form-data" {
		return nil, nil
	}
	fh, err := ctx.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return fh, err
}
