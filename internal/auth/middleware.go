package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

// SessionCookieName is the http-only cookie carrying the session token
const SessionCookieName = "token"

// UserLoader resolves token subjects to user accounts
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	users  UserLoader
	secure bool
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware. secure controls
// the Secure attribute on session cookies.
func NewMiddleware(tokens *TokenManager, users UserLoader, secure bool, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, secure: secure, logger: logger}
}

// Authenticate is the main authentication middleware. It accepts the
// session token from the http-only cookie or an Authorization bearer
// header, and rejects tokens issued before the user's last password change.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			m.unauthorized(w, "missing authentication token")
			return
		}

		claims, err := m.tokens.Validate(tokenString, PurposeSession)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			m.unauthorized(w, "invalid or expired token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			m.unauthorized(w, "invalid token subject")
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			m.unauthorized(w, "account no longer exists")
			return
		}

		if claims.IssuedAt != nil && user.TokenIssuedBeforePasswordChange(claims.IssuedAt.Time) {
			m.unauthorized(w, "password changed, please login again")
			return
		}

		userCtx := &UserContext{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
		}

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin ensures the authenticated user has the admin role
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			m.forbidden(w, "no user context")
			return
		}

		if !userCtx.IsAdmin() {
			m.forbidden(w, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie attaches the session token as an http-only cookie
func (m *Middleware) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(m.tokens.SessionTTL()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func (m *Middleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	writeEnvelope(w, http.StatusUnauthorized, domain.StatusFail, message)
}

func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	writeEnvelope(w, http.StatusForbidden, domain.StatusFail, message)
}

func writeEnvelope(w http.ResponseWriter, code int, status, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(domain.APIError{Status: status, Message: message})
}
