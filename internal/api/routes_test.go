package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/Vinay-014/email-spam-report/internal/checker"
	"github.com/Vinay-014/email-spam-report/internal/config"
	"github.com/Vinay-014/email-spam-report/internal/report"
	"github.com/Vinay-014/email-spam-report/internal/repository"
)

func newRouterUnderTest(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tests := repository.NewMemoryTestRepository()
	inboxes := repository.NewMemoryInboxRepository()
	results := repository.NewMemoryResultRepository()
	profiles := repository.NewMemoryProfileRepository()

	runner := checker.New(tests, inboxes, results, checker.WithLogger(quietLogger()))
	reports := report.NewService(tests, profiles, results, &stubProvider{},
		report.WithTemplateDir("../../templates"),
		report.WithLogger(quietLogger()),
	)

	router := NewRouter(db, &config.Config{}, runner, reports)
	router.SetupRoutes()
	return router
}

func TestHealthEndpoint(t *testing.T) {
	router := newRouterUnderTest(t)

	w := httptest.NewRecorder()
	router.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["status"] != "healthy" {
		t.Fatalf("status field = %v", body["status"])
	}
}

func TestSetupRoutesRegistersEndpoints(t *testing.T) {
	router := newRouterUnderTest(t)

	registered := make(map[string]bool)
	for _, route := range router.Engine().Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"POST /check-test-emails",
		"POST /send-report-email",
		"POST /api/v1/tests",
		"GET /api/v1/tests",
		"GET /api/v1/tests/:id",
		"POST /api/v1/tests/:id/start",
		"GET /api/v1/tests/:id/results",
		"GET /api/v1/inboxes",
		"GET /health",
		"GET /metrics",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %s not registered", route)
		}
	}
}

func TestPreflightOnFunctionEndpoints(t *testing.T) {
	router := newRouterUnderTest(t)

	w := httptest.NewRecorder()
	router.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/check-test-emails", nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q", got)
	}
}
