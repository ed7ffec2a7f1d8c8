package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/payfuse/payment-gateway/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const authSecret = "jwt-secret"

func callAuthed(t *testing.T, authorization string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/webhooks", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var userID string
	handler := AuthMiddleware(authSecret, zap.NewNop())(func(c echo.Context) error {
		userID, _ = c.Get("user_id").(string)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, userID
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	token, err := security.GenerateToken(map[string]any{"sub": "user-1"}, authSecret, time.Hour)
	require.NoError(t, err)

	rec, userID := callAuthed(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", userID)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	wrongSecret, err := security.GenerateToken(map[string]any{"sub": "user-1"}, "other-secret", time.Hour)
	require.NoError(t, err)
	expired, err := security.GenerateToken(map[string]any{"sub": "user-1"}, authSecret, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + wrongSecret},
		{"expired", "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := callAuthed(t, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
