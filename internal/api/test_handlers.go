package api

import (
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Vinay-014/email-spam-report/internal/models"
	"github.com/Vinay-014/email-spam-report/internal/repository"
)

const testCodeLength = 8

const testCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TestHandler covers the test lifecycle endpoints the dashboard uses:
// create, start, detail, history and results.
type TestHandler struct {
	tests   repository.TestRepository
	inboxes repository.InboxRepository
	results repository.ResultRepository
	now     func() time.Time
}

func NewTestHandler(tests repository.TestRepository, inboxes repository.InboxRepository, results repository.ResultRepository) *TestHandler {
	return &TestHandler{
		tests:   tests,
		inboxes: inboxes,
		results: results,
		now:     time.Now,
	}
}

func generateTestCode() string {
	code := make([]byte, testCodeLength)
	for i := range code {
		code[i] = testCodeAlphabet[rand.Intn(len(testCodeAlphabet))]
	}
	return string(code)
}

type createTestRequest struct {
	UserID string `json:"userId"`
}

// CreateTest handles POST /api/v1/tests
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req createTestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		sendErrorResponse(c, http.StatusBadRequest, "Missing userId")
		return
	}

	test := &models.Test{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		TestCode:  generateTestCode(),
		Status:    models.TestStatusPending,
		CreatedAt: h.now(),
	}
	if err := h.tests.Create(c.Request.Context(), test); err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, "Failed to create test")
		return
	}

	c.JSON(http.StatusCreated, test)
}

// StartTest handles POST /api/v1/tests/:id/start
func (h *TestHandler) StartTest(c *gin.Context) {
	id := c.Param("id")
	if err := h.tests.MarkChecking(c.Request.Context(), id, h.now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrTestNotFound):
			sendErrorResponse(c, http.StatusNotFound, "Test not found")
		case errors.Is(err, repository.ErrTestNotPending):
			sendErrorResponse(c, http.StatusConflict, "Test already started")
		default:
			sendErrorResponse(c, http.StatusInternalServerError, "Failed to start test")
		}
		return
	}

	test, err := h.tests.GetByID(c.Request.Context(), id)
	if err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, "Failed to load test")
		return
	}

	c.JSON(http.StatusOK, test)
}

// GetTest handles GET /api/v1/tests/:id
func (h *TestHandler) GetTest(c *gin.Context) {
	test, err := h.tests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTestNotFound) {
			sendErrorResponse(c, http.StatusNotFound, "Test not found")
			return
		}
		sendErrorResponse(c, http.StatusInternalServerError, "Failed to load test")
		return
	}

	c.JSON(http.StatusOK, test)
}

// ListTests handles GET /api/v1/tests?userId=
func (h *TestHandler) ListTests(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		sendErrorResponse(c, http.StatusBadRequest, "Missing userId")
		return
	}

	tests, err := h.tests.ListByUser(c.Request.Context(), userID)
	if err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, "Failed to list tests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tests": tests})
}

// GetTestResults handles GET /api/v1/tests/:id/results
func (h *TestHandler) GetTestResults(c *gin.Context) {
	id := c.Param("id")
	test, err := h.tests.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTestNotFound) {
			sendErrorResponse(c, http.StatusNotFound, "Test not found")
			return
		}
		sendErrorResponse(c, http.StatusInternalServerError, "Failed to load test")
		return
	}

	results, err := h.results.ListByTest(c.Request.Context(), id)
	if err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, "Failed to load results")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"test":    test,
		"results": results,
	})
}

// ListInboxes handles GET /api/v1/inboxes
func (h *TestHandler) ListInboxes(c *gin.Context) {
	inboxes, err := h.inboxes.ListActive(c.Request.Context())
	if err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, "Failed to list inboxes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"inboxes": inboxes})
}
