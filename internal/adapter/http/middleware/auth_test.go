package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	"github.com/google/uuid"
)

type stubAuthService struct {
	user *models.User
	err  error
}

func (s *stubAuthService) RoleCheck(_ context.Context, _ string) (*models.User, error) {
	return s.user, s.err
}

func newTestMiddleware(auth AuthService) *Middleware {
	return NewMiddleware(auth, logger.InitLogger("middleware-test", logger.LevelError))
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuth_MissingHeaderIsAnonymous(t *testing.T) {
	m := newTestMiddleware(&stubAuthService{})

	var seen *models.User
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = models.UserFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	h.ServeHTTP(httptest.NewRecorder(), r)

	if seen == nil || !seen.IsAnonymous() {
		t.Fatalf("expected anonymous user in context, got %+v", seen)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	m := newTestMiddleware(&stubAuthService{err: errors.New("invalid token")})

	h := m.Auth(http.HandlerFunc(okHandler))

	r := httptest.NewRequest(http.MethodGet, "/dispatch/techs", nil)
	r.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	m := newTestMiddleware(&stubAuthService{})

	h := m.Auth(http.HandlerFunc(okHandler))

	r := httptest.NewRequest(http.MethodGet, "/dispatch/techs", nil)
	r.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireRoles(t *testing.T) {
	m := newTestMiddleware(&stubAuthService{})
	gate := m.RequireRoles(okHandler, types.DispatcherRoles...)

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", models.AnonymousUser(), http.StatusUnauthorized},
		{"tech role", &models.User{ID: uuid.New(), Role: types.TechRole}, http.StatusForbidden},
		{"sales role", &models.User{ID: uuid.New(), Role: types.SalesRole}, http.StatusForbidden},
		{"dispatcher", &models.User{ID: uuid.New(), Role: types.DispatcherRole}, http.StatusOK},
		{"admin", &models.User{ID: uuid.New(), Role: types.AdminRole}, http.StatusOK},
		{"owner", &models.User{ID: uuid.New(), Role: types.OwnerRole}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/dispatch/techs", nil)
			r = r.WithContext(models.WithUser(r.Context(), tt.user))
			w := httptest.NewRecorder()
			gate.ServeHTTP(w, r)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestRequireRoles_NoUserInContext(t *testing.T) {
	m := newTestMiddleware(&stubAuthService{})
	gate := m.RequireRoles(okHandler, types.DispatcherRoles...)

	r := httptest.NewRequest(http.MethodGet, "/dispatch/techs", nil)
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
