package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTokenValidator is a test double for session token validation
type mockTokenValidator struct {
	userID    uuid.UUID
	expiresAt time.Time
	err       error
}

func (m *mockTokenValidator) ValidateToken(ctx context.Context, token string) (websocket.Session, error) {
	if m.err != nil {
		return websocket.Session{}, m.err
	}
	return websocket.Session{UserID: m.userID, ExpiresAt: m.expiresAt}, nil
}

var testAllowedOrigins = []string{"http://localhost:3000", "https://ledgerly.app"}

func TestWebSocketHandler_HandleWS_MissingToken(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), &mockTokenValidator{userID: uuid.New()}, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing token", decodeProblem(t, rec).Detail)
}

func TestWebSocketHandler_HandleWS_InvalidToken(t *testing.T) {
	e := echo.New()
	validator := &mockTokenValidator{err: errors.New("token expired")}
	h := NewWebSocketHandler(websocket.NewHub(), validator, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=stale", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebSocketHandler_HandleWS_ValidToken_NoUpgrade(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), &mockTokenValidator{userID: uuid.New()}, testAllowedOrigins)

	// Valid token but not a WebSocket upgrade request
	req := httptest.NewRequest(http.MethodGet, "/ws?token=valid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	// gorilla/websocket fails the upgrade once auth has passed
	assert.Error(t, err)
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}

func TestWebSocketHandler_DeliversUserEvents(t *testing.T) {
	hub := websocket.NewHub()
	userID := uuid.New()
	h := NewWebSocketHandler(hub, &mockTokenValidator{userID: userID}, testAllowedOrigins)

	e := echo.New()
	e.GET("/ws", h.HandleWS)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=valid"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(uuid.New(), websocket.BudgetDeleted(map[string]int{"id": 9}))
	hub.Publish(userID, websocket.IncomeUpdated(map[string]string{"amount": "1000.00"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event websocket.Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "income.updated", event.Type)
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &mockTokenValidator{userID: uuid.New()}, testAllowedOrigins)

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"allowed origin https", "https://ledgerly.app", true},
		{"disallowed origin", "https://evil.com", false},
		{"empty origin (same-origin)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, h.checkOrigin(req))
		})
	}
}

func TestWebSocketHandler_ClosesExpiredSession(t *testing.T) {
	hub := websocket.NewHub()
	userID := uuid.New()
	validator := &mockTokenValidator{userID: userID, expiresAt: time.Now().Add(200 * time.Millisecond)}
	h := NewWebSocketHandler(hub, validator, testAllowedOrigins)

	e := echo.New()
	e.GET("/ws", h.HandleWS)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=valid"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, ws.IsCloseError(err, ws.ClosePolicyViolation), "expected policy violation close, got %v", err)

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 0 }, time.Second, 10*time.Millisecond)
}
