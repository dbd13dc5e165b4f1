package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/middleware"
	"github.com/yigit/volunteerhub/internal/pkg/helpers"
)

// EventController handles event listing and management
type EventController struct {
	eventService EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService EventService, logger zerolog.Logger) *EventController {
	return &EventController{eventService: eventService, logger: logger}
}

// ListEvents returns the public event listing
// @Summary List events
// @Description Lists every event with participant counts, split into upcoming and past
// @Tags events
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse}
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.eventService.ListEvents(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// GetEvent returns one event with the caller's relationship to it
// @Summary Event detail
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse}
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	// anonymous callers get userID 0, which never matches a participation
	userID, _ := middleware.UserID(ctx)

	resp, err := c.eventService.GetEventDetail(ctx.Request.Context(), eventID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// bindEvent binds a JSON or multipart event form
func bindEvent(ctx *gin.Context) (*dto.EventRequest, bool) {
	var req dto.EventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return nil, false
	}
	return &req, true
}

// CreateEvent creates an event owned by the calling manager
// @Summary Create event
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.EventRequest true "Event"
// @Param image formData file false "Event image"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Not a manager"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	managerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	req, ok := bindEvent(ctx)
	if !ok {
		return
	}
	image, err := optionalImage(ctx)
	if err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.eventService.CreateEvent(ctx.Request.Context(), managerID, req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Event created successfully"))
}

// UpdateEvent edits an event of the calling manager
// @Summary Update event
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.EventRequest true "Event"
// @Param image formData file false "Replacement image"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the event's manager"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	managerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	req, ok := bindEvent(ctx)
	if !ok {
		return
	}
	image, err := optionalImage(ctx)
	if err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.eventService.UpdateEvent(ctx.Request.Context(), managerID, eventID, req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Event updated successfully"))
}

// ManagerDashboard lists the calling manager's events with feedback
// @Summary Manager dashboard
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ManagerDashboardResponse}
// @Router /manager/dashboard [get]
func (c *EventController) ManagerDashboard(ctx *gin.Context) {
	managerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	resp, err := c.eventService.ManagerDashboard(ctx.Request.Context(), managerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
