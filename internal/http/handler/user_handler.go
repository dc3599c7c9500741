package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
	"github.com/fremdrift-as/inquiry-api/internal/service"
)

// UserHandler handles HTTP requests for accounts and sessions
type UserHandler struct {
	userService *service.UserService
	middleware  *auth.Middleware
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, middleware *auth.Middleware, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		middleware:  middleware,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register account
// @Description Creates a new account and sends a verification email
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Account data"
// @Success 201 {object} domain.APIResponse{data=domain.UserDTO}
// @Failure 400 {object} domain.APIError "Password too weak"
// @Failure 409 {object} domain.APIError "Email already registered"
// @Router /users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, user, "Account created, please verify your email")
}

// Login godoc
// @Summary Login
// @Description Verifies credentials and issues a session token, also set as an http-only cookie
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.APIResponse{data=domain.AuthResponse}
// @Failure 401 {object} domain.APIError "Invalid credentials"
// @Router /users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	h.middleware.SetSessionCookie(w, result.Token)
	respondSuccess(w, http.StatusOK, result, "Logged in")
}

// Logout godoc
// @Summary Logout
// @Description Clears the session cookie
// @Tags Users
// @Produce json
// @Success 200 {object} domain.APIResponse
// @Security BearerAuth
// @Router /users/logout [post]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.middleware.ClearSessionCookie(w)
	respondSuccess(w, http.StatusOK, nil, "Logged out")
}

// VerifyEmail godoc
// @Summary Verify email
// @Description Confirms an account with the token from the verification mail
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.VerifyEmailRequest true "Verification token"
// @Success 200 {object} domain.APIResponse
// @Failure 400 {object} domain.APIError "Invalid or expired token"
// @Failure 409 {object} domain.APIError "Already verified"
// @Router /users/verify-email [post]
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.userService.VerifyEmail(r.Context(), req.Token); err != nil {
		h.handleUserError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, nil, "Email verified")
}

// RequestPasswordReset godoc
// @Summary Request password reset
// @Description Mails a reset link. Succeeds whether or not the address is registered.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.RequestPasswordResetRequest true "Account email"
// @Success 200 {object} domain.APIResponse
// @Router /users/request-password-reset [post]
func (h *UserHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestPasswordResetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.userService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error("password reset request failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondSuccess(w, http.StatusOK, nil, "If the address is registered, a reset email has been sent")
}

// ResetPassword godoc
// @Summary Reset password
// @Description Sets a new password using a reset token. Outstanding sessions stop validating.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} domain.APIResponse
// @Failure 400 {object} domain.APIError "Invalid token or weak password"
// @Router /users/reset-password [post]
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.userService.ResetPassword(r.Context(), &req); err != nil {
		h.handleUserError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, nil, "Password reset, please login again")
}

// GetProfile godoc
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Success 200 {object} domain.APIResponse{data=domain.UserDTO}
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	user, err := h.userService.GetProfile(r.Context(), userCtx.UserID)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, user, "")
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Changes name, password or the email notification preference
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} domain.APIResponse{data=domain.UserDTO}
// @Failure 400 {object} domain.APIError "Password too weak"
// @Security BearerAuth
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userCtx.UserID, &req)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, user, "Profile updated")
}

// DeleteAccount godoc
// @Summary Delete own account
// @Tags Users
// @Produce json
// @Success 200 {object} domain.APIResponse
// @Security BearerAuth
// @Router /users/me [delete]
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	if err := h.userService.Delete(r.Context(), userCtx.UserID); err != nil {
		h.handleUserError(w, err)
		return
	}

	h.middleware.ClearSessionCookie(w)
	respondSuccess(w, http.StatusOK, nil, "Account deleted")
}

// ListAdmins godoc
// @Summary List admins
// @Description Lists admin accounts, optionally filtered by partial name
// @Tags Users
// @Produce json
// @Param name query string false "Partial name filter"
// @Param sort query string false "Sort order (name_asc, name_desc)"
// @Success 200 {object} domain.APIResponse{data=[]domain.UserDTO}
// @Security BearerAuth
// @Router /users/admins [get]
func (h *UserHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	sortBy := repository.UserSortOption(r.URL.Query().Get("sort"))

	admins, err := h.userService.ListAdmins(r.Context(), r.URL.Query().Get("name"), sortBy)
	if err != nil {
		h.logger.Error("failed to list admins", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list admins")
		return
	}

	respondSuccess(w, http.StatusOK, admins, "")
}

// handleUserError maps service errors to HTTP responses
func (h *UserHandler) handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		respondWithError(w, http.StatusConflict, "Email address already registered")
	case errors.Is(err, service.ErrWeakPassword):
		respondWithError(w, http.StatusBadRequest, "Password does not meet strength requirements")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		respondWithError(w, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, service.ErrAlreadyVerified):
		respondWithError(w, http.StatusConflict, "Account is already verified")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	default:
		h.logger.Error("user operation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
