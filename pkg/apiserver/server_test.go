package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utpad/utpad/pkg/auth"
	"github.com/utpad/utpad/pkg/config"
	"github.com/utpad/utpad/pkg/model"
)

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Capacity.WorkWeek = "1111100"
	cfg.Capacity.ReportCacheTTL = 5 * time.Minute
	return cfg
}

func TestHealthEndpoint(t *testing.T) {
	server := NewServer(nil, nil, testConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var response healthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Fatalf("expected status ok, got %q", response.Status)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	server := NewServer(nil, nil, testConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/capacity/org-group", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "invalid token" {
		t.Fatalf("expected invalid token error, got %q", response.Error)
	}
}

func TestCapacityRequiresAuthentication(t *testing.T) {
	server := NewServer(nil, nil, testConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/capacity/org-group", nil)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "authentication required" {
		t.Fatalf("expected authentication required error, got %q", response.Error)
	}
}

func TestAuthenticatedRequestReachesHandler(t *testing.T) {
	cfg := testConfig()
	server := NewServer(nil, nil, cfg, zap.NewNop())

	tokens := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	token, err := tokens.Generate(&model.User{ID: uuid.New(), Username: "dara"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/capacity/org-group", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	// Past authentication the handler rejects the missing query parameters.
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}
