package http

import (
	"context"
	"net/http"
	"strings"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// Middleware authenticates requests and enforces the organizer role.
type Middleware struct {
	authSvc service.AuthService
}

func NewMiddleware(authSvc service.AuthService) *Middleware {
	return &Middleware{authSvc: authSvc}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Authenticate requires a valid access token. The user is re-read from the
// store on every request, so a blocked account is rejected immediately even
// while its token is still cryptographically valid.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, domain.ErrTokenInvalid)
			return
		}
		user, err := m.authSvc.VerifyAccess(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

// OptionalAuth attaches the caller when a valid token is present but lets
// anonymous requests through. Used on public event reads so the listing can
// carry the caller's own participation status.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if user, err := m.authSvc.VerifyAccess(r.Context(), token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
			}
		}
		next(w, r)
	}
}

// RequireOrganizer must be stacked inside Authenticate.
func (m *Middleware) RequireOrganizer(next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		if user == nil || user.Role != domain.UserRoleOrganizer {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "organizer role required"})
			return
		}
		next(w, r)
	})
}

func userFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// callerID returns the authenticated user's id, or nil for anonymous requests.
func callerID(ctx context.Context) *int32 {
	if user := userFromContext(ctx); user != nil {
		id := user.ID
		return &id
	}
	return nil
}
