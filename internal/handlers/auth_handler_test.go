package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"thaifolio/internal/middleware"
	"thaifolio/internal/validator"
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

var testJWTSecret = []byte("handler-test-secret")

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/token", handler.Token)
	return r
}

// --- tests ---

func TestAuthHandler_Token(t *testing.T) {
	handler, err := NewAuthHandler("correct horse battery staple", testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewAuthHandler: %v", err)
	}
	r := setupAuthRouter(handler)

	t.Run("returns token for the right passphrase", func(t *testing.T) {
		rec := doRequest(r, "POST", "/auth/token", `{"passphrase":"correct horse battery staple"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		token, _ := result["token"].(string)
		if token == "" {
			t.Fatal("expected non-empty token")
		}
		if _, err := middleware.ValidateOwnerToken(testJWTSecret, token); err != nil {
			t.Errorf("issued token does not validate: %v", err)
		}
		if result["expires_at"] == nil {
			t.Error("expected expires_at")
		}
	})

	t.Run("returns 401 for a wrong passphrase", func(t *testing.T) {
		rec := doRequest(r, "POST", "/auth/token", `{"passphrase":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 when passphrase is missing", func(t *testing.T) {
		rec := doRequest(r, "POST", "/auth/token", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestAuthHandler_Disabled(t *testing.T) {
	handler, err := NewAuthHandler("", testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewAuthHandler: %v", err)
	}
	if handler.Enabled() {
		t.Fatal("expected auth to be disabled without a passphrase")
	}

	rec := doRequest(setupAuthRouter(handler), "POST", "/auth/token", `{"passphrase":"anything"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "AUTH_DISABLED")
}

func doRequestWithKey(r *gin.Engine, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, http.NoBody)
	req.Header.Set(middleware.APIKeyHeader, apiKey)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
