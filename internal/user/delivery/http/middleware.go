package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/pkg/auth"
	"github.com/tair/techstore/pkg/logger"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
	TokenKey     contextKey = "token"
)

// PrincipalFromContext returns the caller stored by AuthMiddleware
func PrincipalFromContext(ctx context.Context) (*auth.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*auth.Principal)
	return p, ok && p != nil
}

// AuthMiddleware resolves the bearer token through the gate
func AuthMiddleware(gate auth.Gate) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Rejected request without bearer token")
				respondError(w, apperr.NewUnauthorizedError(err.Error()))
				return
			}

			principal, err := gate.Authenticate(r.Context(), token)
			if err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Invalid token")
				respondError(w, apperr.NewUnauthorizedError(auth.ErrInvalidToken.Error()))
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// AdminMiddleware requires the Admin role on top of AuthMiddleware
func AdminMiddleware(gate auth.Gate) func(http.HandlerFunc) http.HandlerFunc {
	authenticate := AuthMiddleware(gate)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return authenticate(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := PrincipalFromContext(r.Context())
			if !principal.HasRole(auth.RoleAdmin) {
				logger.Warn(r.Context()).Uint("user_id", principal.UserID).Msg("Admin access denied")
				respondError(w, apperr.NewForbiddenError(auth.ErrForbidden.Error()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// respondError writes the taxonomy status and message of err
func respondError(w http.ResponseWriter, err error) {
	status := apperr.StatusCode(err)
	body := errorResponse{Error: err.Error()}

	var ve *apperr.ValidationError
	var ae *apperr.AuthorizationError
	switch {
	case errors.As(err, &ve):
		body.Fields = ve.Fields
	case errors.As(err, &ae):
		body.Error = ae.Reason
	case status == http.StatusInternalServerError:
		body.Error = "internal server error"
	}
	respondJSON(w, status, body)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
