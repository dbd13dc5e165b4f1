package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/middleware"
)

// AuthController handles signup, login and the caller's profile
type AuthController struct {
	authService      AuthService
	volunteerService VolunteerService
	logger           zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, volunteerService VolunteerService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:      authService,
		volunteerService: volunteerService,
		logger:           logger,
	}
}

// RegisterVolunteer handles volunteer signup
// @Summary Register a volunteer
// @Description Creates a volunteer account with its profile and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterVolunteerRequest true "Volunteer signup"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/volunteers [post]
func (c *AuthController) RegisterVolunteer(ctx *gin.Context) {
	var req dto.RegisterVolunteerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid volunteer registration payload")
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.authService.RegisterVolunteer(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Volunteer registered"))
}

// RegisterManager handles manager signup
// @Summary Register an event manager
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterManagerRequest true "Manager signup"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/managers [post]
func (c *AuthController) RegisterManager(ctx *gin.Context) {
	var req dto.RegisterManagerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid manager registration payload")
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.authService.RegisterManager(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Manager registered"))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Info().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// Me returns the caller's profile
// @Summary Current user profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	profile, err := c.authService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// UpdateLocation stores the volunteer's browser-reported position
// @Summary Update volunteer location
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateLocationRequest true "Coordinates"
// @Success 200 {object} dto.APIResponse{data=geo.Point}
// @Failure 400 {object} dto.ErrorResponse "Coordinates out of range"
// @Router /me/location [put]
func (c *AuthController) UpdateLocation(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.UpdateLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	point, err := c.volunteerService.UpdateLocation(ctx.Request.Context(), userID, req.Latitude, req.Longitude)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(point, "Location updated successfully"))
}
