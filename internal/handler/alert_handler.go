package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sfk-console-api/internal/dto"
	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/response"
)

type alertLister interface {
	Alerts(ctx context.Context) (models.RiskSummary, error)
}

type retentionRecorder interface {
	Record(ctx context.Context, alertID string, req dto.CreateRetentionActionRequest, actor *models.JWTClaims) (*models.RetentionAction, error)
	History(ctx context.Context, studentID string) ([]models.RetentionAction, error)
}

// AlertHandler exposes churn risk alerts and the retention log.
type AlertHandler struct {
	risk      alertLister
	retention retentionRecorder
}

// NewAlertHandler constructs AlertHandler.
func NewAlertHandler(risk alertLister, retention retentionRecorder) *AlertHandler {
	return &AlertHandler{risk: risk, retention: retention}
}

// List godoc
// @Summary Churn risk alerts
// @Description Unhandled alerts first, newest first.
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	summary, err := h.risk.Alerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// RecordAction godoc
// @Summary Record a retention action
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID, percent-encoded"
// @Param payload body dto.CreateRetentionActionRequest true "Action"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /alerts/{id}/actions [post]
func (h *AlertHandler) RecordAction(c *gin.Context) {
	var req dto.CreateRetentionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid action payload"))
		return
	}
	action, err := h.retention.Record(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, action)
}

// History godoc
// @Summary Retention log
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param student_id query string false "Student"
// @Success 200 {object} response.Envelope
// @Router /retention/actions [get]
func (h *AlertHandler) History(c *gin.Context) {
	actions, err := h.retention.History(c.Request.Context(), c.Query("student_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, actions, nil)
}
