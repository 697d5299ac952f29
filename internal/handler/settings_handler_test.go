package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/service"
	"github.com/ledgerly/ledgerly-backend/internal/repository/storage"
	"github.com/ledgerly/ledgerly-backend/internal/testutil"
)

func newTestSettingsHandler(store storage.ObjectStore) (*SettingsHandler, *testutil.MockSettingsRepository) {
	settingsRepo := testutil.NewMockSettingsRepository()
	currency := service.NewCurrencyService(testutil.NewMockRateProvider(map[string]string{
		"USD": "1",
		"EUR": "0.9",
	}), time.Hour)
	settingsService := service.NewSettingsService(settingsRepo, currency, service.NewAvatarService(store))
	return NewSettingsHandler(settingsService), settingsRepo
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func newAvatarRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/settings/avatar", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func TestGetSettings_Defaults(t *testing.T) {
	e := echo.New()
	h, _ := newTestSettingsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New(), "alice")

	if err := h.GetSettings(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response SettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Currency != "USD" {
		t.Errorf("Expected currency USD, got %s", response.Currency)
	}
	if response.Theme != "system" {
		t.Errorf("Expected theme system, got %s", response.Theme)
	}
	if !response.NotificationsEnabled {
		t.Error("Expected notifications enabled by default")
	}
	if response.AvatarURL != nil {
		t.Errorf("Expected no avatar, got %s", *response.AvatarURL)
	}
}

func TestUpdateSettings_Partial(t *testing.T) {
	e := echo.New()
	h, settingsRepo := newTestSettingsHandler(nil)
	userID := uuid.New()

	req := newJSONRequest(http.MethodPut, "/api/v1/settings", `{"currency": "eur", "theme": "dark"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID, "alice")

	if err := h.UpdateSettings(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored := settingsRepo.Settings[userID]
	if stored == nil {
		t.Fatal("Expected settings to be stored")
	}
	if stored.Currency != "EUR" || stored.Theme != "dark" {
		t.Errorf("Expected EUR/dark, got %s/%s", stored.Currency, stored.Theme)
	}
	if !stored.NotificationsEnabled {
		t.Error("Expected omitted notificationsEnabled to keep its default")
	}
}

func TestUpdateSettings_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown currency", `{"currency": "XYZ"}`, "currency"},
		{"unknown theme", `{"theme": "neon"}`, "theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h, _ := newTestSettingsHandler(nil)

			req := newJSONRequest(http.MethodPut, "/api/v1/settings", tt.body)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			setupAuthContext(c, uuid.New(), "alice")

			if err := h.UpdateSettings(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rec.Code)
			}
			if problem := decodeProblem(t, rec); len(problem.Errors) != 1 || problem.Errors[0].Field != tt.field {
				t.Errorf("Expected error on %s, got %+v", tt.field, problem.Errors)
			}
		})
	}
}

func TestUploadAvatar_Success(t *testing.T) {
	e := echo.New()
	store := testutil.NewMockObjectStore()
	h, settingsRepo := newTestSettingsHandler(store)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(newAvatarRequest(t, "me.png", pngBytes(t, 120, 80)), rec)
	setupAuthContext(c, userID, "alice")

	if err := h.UploadAvatar(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response SettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.AvatarURL == nil || !strings.HasPrefix(*response.AvatarURL, "https://storage.test/") {
		t.Errorf("Expected presigned avatar URL, got %v", response.AvatarURL)
	}
	if len(store.Objects) != 1 {
		t.Errorf("Expected 1 stored object, got %d", len(store.Objects))
	}
	if stored := settingsRepo.Settings[userID]; stored == nil || stored.AvatarKey == nil {
		t.Error("Expected avatar key to be saved")
	}
}

func TestUploadAvatar_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     func(t *testing.T) []byte
	}{
		{"unsupported extension", "me.gif", func(t *testing.T) []byte { return pngBytes(t, 100, 100) }},
		{"too small", "me.png", func(t *testing.T) []byte { return pngBytes(t, 20, 20) }},
		{"not an image", "me.png", func(t *testing.T) []byte { return []byte("definitely not a png") }},
		{"huge dimensions", "me.png", func(t *testing.T) []byte { return testutil.PNGClaimingSize(50000, 50000) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			store := testutil.NewMockObjectStore()
			h, _ := newTestSettingsHandler(store)

			rec := httptest.NewRecorder()
			c := e.NewContext(newAvatarRequest(t, tt.filename, tt.data(t)), rec)
			setupAuthContext(c, uuid.New(), "alice")

			if err := h.UploadAvatar(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if problem := decodeProblem(t, rec); len(problem.Errors) != 1 || problem.Errors[0].Field != "file" {
				t.Errorf("Expected file error, got %+v", problem.Errors)
			}
			if len(store.Objects) != 0 {
				t.Error("Expected nothing to be stored")
			}
		})
	}
}

func TestUploadAvatar_StorageNotConfigured(t *testing.T) {
	e := echo.New()
	h, _ := newTestSettingsHandler(nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(newAvatarRequest(t, "me.png", pngBytes(t, 100, 100)), rec)
	setupAuthContext(c, uuid.New(), "alice")

	if err := h.UploadAvatar(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}

func TestUploadAvatar_MissingFile(t *testing.T) {
	e := echo.New()
	h, _ := newTestSettingsHandler(testutil.NewMockObjectStore())

	req := newJSONRequest(http.MethodPost, "/api/v1/settings/avatar", `{}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New(), "alice")

	if err := h.UploadAvatar(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
