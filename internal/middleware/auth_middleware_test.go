package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/oikia/backend-go/internal/database/models"
	"github.com/oikia/backend-go/internal/database/service"
)

// stubAuthService accepts exactly one bearer token and one API key.
type stubAuthService struct {
	validBearer string
	validAPIKey string
	user        *models.User
	client      *models.Client
}

func (s *stubAuthService) Register(username, email, firstName, lastName, password string) (*models.User, error) {
	return nil, service.ErrUnauthorized
}

func (s *stubAuthService) Authenticate(email, password string) (*service.AuthResult, error) {
	return nil, service.ErrUnauthorized
}

func (s *stubAuthService) AuthenticateByToken(token, refresh string) (*service.TokenAuthResult, error) {
	return nil, service.ErrUnauthorized
}

func (s *stubAuthService) CreateOrGetSession(ipV4, ipV6 string) (*models.Session, bool, error) {
	return nil, false, service.ErrIPRequired
}

func (s *stubAuthService) CreateAPIKey() (string, error) {
	return "", service.ErrUnauthorized
}

func (s *stubAuthService) ResolveBearer(token string) (*models.User, error) {
	if token == s.validBearer {
		return s.user, nil
	}
	return nil, service.ErrUnauthorized
}

func (s *stubAuthService) ResolveAPIKey(key string) (*models.Client, error) {
	if key == s.validAPIKey {
		return s.client, nil
	}
	return nil, service.ErrUnauthorized
}

func newTestRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := gin.New()
	r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	svc := &stubAuthService{
		validBearer: "good-token",
		validAPIKey: "good-key",
		user:        &models.User{ID: uuid.New(), Username: "tester"},
		client:      &models.Client{ID: uuid.New(), Name: "client"},
	}
	router := newTestRouter(svc)

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{"no credentials", nil, http.StatusUnauthorized},
		{"valid bearer", map[string]string{"Authorization": "Bearer good-token"}, http.StatusOK},
		{"invalid bearer", map[string]string{"Authorization": "Bearer bad-token"}, http.StatusUnauthorized},
		{"malformed header", map[string]string{"Authorization": "good-token"}, http.StatusUnauthorized},
		{"wrong scheme", map[string]string{"Authorization": "Basic good-token"}, http.StatusUnauthorized},
		{"valid api key", map[string]string{"X-API-KEY": "good-key"}, http.StatusOK},
		{"invalid api key", map[string]string{"X-API-KEY": "bad-key"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"detail": "Could not validate credentials"}`, w.Body.String())
			}
		})
	}
}

func TestRequireAuth_BearerTakesPrecedence(t *testing.T) {
	svc := &stubAuthService{
		validBearer: "good-token",
		validAPIKey: "good-key",
		user:        &models.User{ID: uuid.New()},
		client:      &models.Client{ID: uuid.New()},
	}
	router := newTestRouter(svc)

	// A bad bearer is rejected even when a valid API key rides along.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	req.Header.Set("X-API-KEY", "good-key")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
