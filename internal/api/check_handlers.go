package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Vinay-014/email-spam-report/internal/checker"
)

// CheckHandler exposes the check cycle over HTTP so it can be triggered
// on demand in addition to the scheduled runs.
type CheckHandler struct {
	runner *checker.Runner
}

func NewCheckHandler(runner *checker.Runner) *CheckHandler {
	return &CheckHandler{runner: runner}
}

// RunCheck handles POST /check-test-emails
func (h *CheckHandler) RunCheck(c *gin.Context) {
	summary, err := h.runner.RunCycle(c.Request.Context())
	if err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	if summary.TestsProcessed == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No active tests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Check completed",
		"testsProcessed": summary.TestsProcessed,
	})
}
