package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/middleware"
)

// ParticipationController handles participation requests, their review, dashboards and
// feedback for volunteers
type ParticipationController struct {
	participationService ParticipationService
	feedbackService      FeedbackService
	dashboardService     DashboardService
	logger               zerolog.Logger
}

// NewParticipationController creates a new ParticipationController
func NewParticipationController(
	participationService ParticipationService,
	feedbackService FeedbackService,
	dashboardService DashboardService,
	logger zerolog.Logger,
) *ParticipationController {
	return &ParticipationController{
		participationService: participationService,
		feedbackService:      feedbackService,
		dashboardService:     dashboardService,
		logger:               logger,
	}
}

// Dashboard returns the caller's categorized upcoming events
// @Summary Volunteer dashboard
// @Description Groups upcoming events into buckets: tomorrow, completed, matching interests, within 2/5/10 km, other
// @Tags volunteer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Router /dashboard [get]
func (c *ParticipationController) Dashboard(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	resp, err := c.dashboardService.Dashboard(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// RequestParticipation asks to join an event
// @Summary Request participation
// @Tags volunteer
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationStatusResponse}
// @Failure 409 {object} dto.ErrorResponse "Full, closed, rejected or already a participant"
// @Router /events/{id}/participation [post]
func (c *ParticipationController) RequestParticipation(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.participationService.RequestParticipation(ctx.Request.Context(), eventID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Participation requested"))
}

// MyEvents lists the events the caller joined or asked to join
// @Summary My events
// @Tags volunteer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MyEventsResponse}
// @Router /me/events [get]
func (c *ParticipationController) MyEvents(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	resp, err := c.participationService.MyEvents(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// ListRequests shows the manager every request for an event
// @Summary Participation requests of an event
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationRequestsResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the event's manager"
// @Router /events/{id}/requests [get]
func (c *ParticipationController) ListRequests(ctx *gin.Context) {
	managerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.participationService.ListRequests(ctx.Request.Context(), eventID, managerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// ApproveRequest accepts a pending request
// @Summary Approve participation request
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param userId path int true "Requesting user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationStatusResponse}
// @Failure 404 {object} dto.ErrorResponse "No pending request"
// @Failure 409 {object} dto.ErrorResponse "Event is full"
// @Router /events/{id}/requests/{userId}/approve [post]
func (c *ParticipationController) ApproveRequest(ctx *gin.Context) {
	c.decide(ctx, c.participationService.ApproveRequest, "Request approved")
}

// RejectRequest declines a pending request
// @Summary Reject participation request
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param userId path int true "Requesting user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationStatusResponse}
// @Failure 404 {object} dto.ErrorResponse "No pending request"
// @Router /events/{id}/requests/{userId}/reject [post]
func (c *ParticipationController) RejectRequest(ctx *gin.Context) {
	c.decide(ctx, c.participationService.RejectRequest, "Request rejected")
}

type decision func(ctx context.Context, eventID, userID, actingUserID int64) (*dto.ParticipationStatusResponse, error)

func (c *ParticipationController) decide(ctx *gin.Context, fn decision, message string) {
	managerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	resp, err := fn(ctx.Request.Context(), eventID, userID, managerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, message))
}

// SubmitFeedback rates an event the caller took part in
// @Summary Submit feedback
// @Tags volunteer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.FeedbackRequest true "Feedback"
// @Success 201 {object} dto.APIResponse{data=dto.FeedbackResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 409 {object} dto.ErrorResponse "Feedback already submitted"
// @Router /events/{id}/feedback [post]
func (c *ParticipationController) SubmitFeedback(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.feedbackService.SubmitFeedback(ctx.Request.Context(), eventID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Thank you for your feedback!"))
}

// Certificate returns the data for a participation certificate
// @Summary Participation certificate
// @Tags volunteer
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.CertificateResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /events/{id}/certificate [get]
func (c *ParticipationController) Certificate(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.participationService.Certificate(ctx.Request.Context(), eventID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
