package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sfk-console-api/internal/middleware"
	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/pkg/response"
)

type reportBuilder interface {
	Finance(ctx context.Context, unit string) (*models.FinanceReport, bool, error)
	TrialFunnel(ctx context.Context) (*models.TrialFunnel, bool, error)
}

// ReportHandler serves management reports.
type ReportHandler struct {
	reports reportBuilder
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportBuilder) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Finance godoc
// @Summary Expected monthly revenue
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param unit query string false "Restrict to a unit"
// @Success 200 {object} response.Envelope
// @Router /reports/finance [get]
func (h *ReportHandler) Finance(c *gin.Context) {
	start := time.Now()
	report, hit, err := h.reports.Finance(c.Request.Context(), c.Query("unit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondReport(c, report, hit, start)
}

// TrialFunnel godoc
// @Summary Trial class conversion funnel
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reports/trial-funnel [get]
func (h *ReportHandler) TrialFunnel(c *gin.Context) {
	start := time.Now()
	funnel, hit, err := h.reports.TrialFunnel(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondReport(c, funnel, hit, start)
}

func respondReport(c *gin.Context, data interface{}, hit bool, start time.Time) {
	middleware.SetCacheHit(c, hit)
	meta := middleware.Meta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, nil, meta)
}
