package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/application/services"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.RegisterRequest true "Account data"
// @Success 201 {object} ports.AuthResponse
// @Failure 400 {object} ports.ErrorResponse
// @Failure 409 {object} ports.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} ports.AuthResponse
// @Failure 401 {object} ports.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.LogSecurityEvent("login_failed", "", c.RealIP(), map[string]interface{}{"email": req.Email})
		return err
	}

	return c.JSON(http.StatusOK, response)
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} ports.AuthResponse
// @Failure 401 {object} ports.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req ports.RefreshTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, response)
}

// Logout godoc
// @Summary Revoke every refresh token of the current user
// @Tags auth
// @Produce json
// @Success 200 {object} ports.MessageResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), actor.UserID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Logged out successfully"})
}

// UserHandler handles the current user's profile
type UserHandler struct {
	userService *services.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetCurrentUser godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Success 200 {object} entities.User
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetProfile(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser godoc
// @Summary Update the current user's names
// @Tags users
// @Accept json
// @Produce json
// @Param request body ports.UpdateProfileRequest true "Profile"
// @Success 200 {object} entities.User
// @Security BearerAuth
// @Router /users/me [patch]
func (h *UserHandler) UpdateCurrentUser(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	var req ports.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actor.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
