package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
	"github.com/tair/techstore/internal/user/dto"
	"github.com/tair/techstore/internal/user/usecase/command"
	"github.com/tair/techstore/internal/user/usecase/query"
	"github.com/tair/techstore/pkg/auth"
	"github.com/tair/techstore/pkg/logger"
	"github.com/tair/techstore/pkg/metrics"
)

// UserHandler handles HTTP requests for accounts and user administration
type UserHandler struct {
	// Command handlers
	registerHandler      *command.RegisterUserHandler
	loginHandler         *command.LoginUserHandler
	updateProfileHandler *command.UpdateProfileHandler
	changeRoleHandler    *command.ChangeRoleHandler
	deleteHandler        *command.DeleteUserHandler

	// Query handlers
	getUserHandler *query.GetUserHandler
	listHandler    *query.ListUsersHandler
	statsHandler   *query.GetStatsHandler

	gate         auth.Gate
	metrics      *metrics.HTTPMetrics
	totalUsers   prometheus.Gauge
	loginLimiter func(http.HandlerFunc) http.HandlerFunc
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	updateProfileHandler *command.UpdateProfileHandler,
	changeRoleHandler *command.ChangeRoleHandler,
	deleteHandler *command.DeleteUserHandler,
	getUserHandler *query.GetUserHandler,
	listHandler *query.ListUsersHandler,
	statsHandler *query.GetStatsHandler,
	gate auth.Gate,
	reg prometheus.Registerer,
) *UserHandler {
	return &UserHandler{
		registerHandler:      registerHandler,
		loginHandler:         loginHandler,
		updateProfileHandler: updateProfileHandler,
		changeRoleHandler:    changeRoleHandler,
		deleteHandler:        deleteHandler,
		getUserHandler:       getUserHandler,
		listHandler:          listHandler,
		statsHandler:         statsHandler,
		gate:                 gate,
		metrics:              metrics.NewHTTPMetrics(reg, "user_service"),
		totalUsers:           metrics.NewGauge(reg, "user_service_registered_users", "Number of registered users"),
	}
}

// WithLoginLimiter wraps the login and register routes, typically with a rate limiter
func (h *UserHandler) WithLoginLimiter(mw func(http.HandlerFunc) http.HandlerFunc) *UserHandler {
	h.loginLimiter = mw
	return h
}

// RegisterRoutes registers all account and admin routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	authenticated := AuthMiddleware(h.gate)
	admin := AdminMiddleware(h.gate)
	limited := func(next http.HandlerFunc) http.HandlerFunc {
		if h.loginLimiter == nil {
			return next
		}
		return h.loginLimiter(next)
	}

	// Public routes
	router.HandleFunc("/api/auth/register", h.metrics.Wrap("/api/auth/register", limited(h.Register))).Methods("POST")
	router.HandleFunc("/api/auth/login", h.metrics.Wrap("/api/auth/login", limited(h.Login))).Methods("POST")

	// Authenticated user routes
	router.HandleFunc("/api/auth/me", h.metrics.Wrap("/api/auth/me", authenticated(h.GetProfile))).Methods("GET")
	router.HandleFunc("/api/auth/me", h.metrics.Wrap("/api/auth/me", authenticated(h.UpdateProfile))).Methods("PUT")

	// Admin routes
	router.HandleFunc("/api/admin/users", h.metrics.Wrap("/api/admin/users", admin(h.ListUsers))).Methods("GET")
	router.HandleFunc("/api/admin/users/{id}/make-admin", h.metrics.Wrap("/api/admin/users/{id}/make-admin", admin(h.MakeAdmin))).Methods("POST")
	router.HandleFunc("/api/admin/users/{id}/remove-admin", h.metrics.Wrap("/api/admin/users/{id}/remove-admin", admin(h.RemoveAdmin))).Methods("POST")
	router.HandleFunc("/api/admin/users/{id}", h.metrics.Wrap("/api/admin/users/{id}", admin(h.DeleteUser))).Methods("DELETE")
	router.HandleFunc("/api/admin/stats", h.metrics.Wrap("/api/admin/stats", admin(h.GetStats))).Methods("GET")
}

// Register godoc
// @Summary Register a new account
// @Description Creates a Client account and returns a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/auth/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.NewFieldError("body", "invalid JSON"))
		return
	}

	result, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, "Registration failed", err)
		return
	}

	logger.Info(r.Context()).Uint("user_id", result.User.ID).Msg("User registered")
	h.updateUsersMetric(r)
	respondJSON(w, http.StatusCreated, dto.AuthResponse{Token: result.Token, User: dto.FromUser(result.User)})
}

// Login godoc
// @Summary Log in
// @Description Authenticates by email and password and returns a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} errorResponse
// @Router /api/auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.NewFieldError("body", "invalid JSON"))
		return
	}

	result, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, "Login failed", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.AuthResponse{Token: result.Token, User: dto.FromUser(result.User)})
}

// GetProfile godoc
// @Summary Current account
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} errorResponse
// @Router /api/auth/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: principal.UserID})
	if err != nil {
		h.fail(w, r, "Failed to load profile", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.UserResponse{User: dto.FromUser(user)})
}

// UpdateProfile godoc
// @Summary Update current account
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/auth/me [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req dto.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.NewFieldError("body", "invalid JSON"))
		return
	}

	user, err := h.updateProfileHandler.Handle(r.Context(), command.UpdateProfileCommand{
		UserID: principal.UserID,
		Patch:  req.Patch(),
	})
	if err != nil {
		h.fail(w, r, "Profile update failed", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.UserResponse{User: dto.FromUser(user)})
}

// ListUsers godoc
// @Summary List users (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UsersResponse
// @Failure 403 {object} errorResponse
// @Router /api/admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.listHandler.Handle(r.Context(), query.ListUsersQuery{})
	if err != nil {
		h.fail(w, r, "Failed to list users", err)
		return
	}

	respondJSON(w, http.StatusOK, dto.UsersResponse{Users: dto.FromUsers(users)})
}

// MakeAdmin godoc
// @Summary Grant the Admin role (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} errorResponse
// @Router /api/admin/users/{id}/make-admin [post]
func (h *UserHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	h.changeRole(w, r, true)
}

// RemoveAdmin godoc
// @Summary Revoke the Admin role (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} errorResponse
// @Router /api/admin/users/{id}/remove-admin [post]
func (h *UserHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	h.changeRole(w, r, false)
}

func (h *UserHandler) changeRole(w http.ResponseWriter, r *http.Request, grant bool) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.changeRoleHandler.Handle(r.Context(), command.ChangeRoleCommand{
		UserID: id,
		Role:   domain.RoleAdmin,
		Grant:  grant,
	})
	if err != nil {
		h.fail(w, r, "Role change failed", err)
		return
	}

	logger.Info(r.Context()).Uint("user_id", id).Bool("admin", grant).Msg("User role changed")
	respondJSON(w, http.StatusOK, dto.UserResponse{User: dto.FromUser(user)})
}

// DeleteUser godoc
// @Summary Delete a user (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteUserCommand{ActorID: principal.UserID, ID: id}); err != nil {
		h.fail(w, r, "User deletion failed", err)
		return
	}

	logger.Info(r.Context()).Uint("user_id", id).Msg("User deleted")
	h.updateUsersMetric(r)
	respondJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

// GetStats godoc
// @Summary Account statistics (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} query.UserStats
// @Router /api/admin/stats [get]
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		h.fail(w, r, "Failed to get stats", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// fail logs server-side failures and writes the error response
func (h *UserHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if apperr.StatusCode(err) >= http.StatusInternalServerError {
		logger.Error(r.Context()).Err(err).Msg(msg)
	} else {
		logger.Debug(r.Context()).Err(err).Msg(msg)
	}
	respondError(w, err)
}

// updateUsersMetric updates the registered users gauge
func (h *UserHandler) updateUsersMetric(r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err == nil {
		h.totalUsers.Set(float64(stats.TotalUsers))
	}
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.NewFieldError("id", "must be a positive integer")
	}
	return uint(id), nil
}
