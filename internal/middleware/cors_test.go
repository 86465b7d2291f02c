package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Vinay-014/email-spam-report/internal/config"
)

func corsEngine(cfg config.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS(cfg))
	engine.POST("/check-test-emails", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return engine
}

func TestCORSDefaults(t *testing.T) {
	engine := corsEngine(config.CORSConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/check-test-emails", nil)
	engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q, want *", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
		t.Fatalf("unexpected allow-headers %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := corsEngine(config.CORSConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/check-test-emails", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestCORSConfiguredOrigins(t *testing.T) {
	engine := corsEngine(config.CORSConfig{Origins: []string{"https://app.example.com"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/check-test-emails", nil)
	engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
}
