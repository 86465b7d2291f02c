package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Vinay-014/email-spam-report/internal/report"
)

// ReportHandler sends the deliverability report for a finished test.
type ReportHandler struct {
	reports *report.Service
}

func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type sendReportRequest struct {
	TestID string `json:"testId"`
}

// SendReport handles POST /send-report-email
func (h *ReportHandler) SendReport(c *gin.Context) {
	var req sendReportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TestID == "" {
		sendErrorResponse(c, http.StatusBadRequest, "Missing testId")
		return
	}

	emailID, err := h.reports.Send(c.Request.Context(), req.TestID)
	if err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"emailId": emailID,
	})
}
