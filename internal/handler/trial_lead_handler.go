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

type trialLeadService interface {
	List(ctx context.Context, filter models.TrialLeadFilter) ([]models.TrialLead, error)
	Update(ctx context.Context, id string, req dto.UpdateTrialLeadRequest) (*models.TrialLead, error)
	SendReminder(ctx context.Context, id string, req dto.SendReminderRequest) (*models.TrialLead, error)
}

// TrialLeadHandler serves trial class leads.
type TrialLeadHandler struct {
	leads trialLeadService
}

// NewTrialLeadHandler constructs TrialLeadHandler.
func NewTrialLeadHandler(leads trialLeadService) *TrialLeadHandler {
	return &TrialLeadHandler{leads: leads}
}

// List godoc
// @Summary List trial leads
// @Tags TrialLeads
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pendente, Presente or Ausente"
// @Param course query string false "Course"
// @Param unit query string false "Unit"
// @Success 200 {object} response.Envelope
// @Router /trial-leads [get]
func (h *TrialLeadHandler) List(c *gin.Context) {
	filter := models.TrialLeadFilter{
		Status: models.TrialStatus(c.Query("status")),
		Course: c.Query("course"),
		Unit:   c.Query("unit"),
	}
	leads, err := h.leads.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leads, nil)
}

// Update godoc
// @Summary Update a trial lead
// @Description Patch status and follow-up flags. The change is written back to the spreadsheet in the background.
// @Tags TrialLeads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param payload body dto.UpdateTrialLeadRequest true "Patch"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /trial-leads/{id} [put]
func (h *TrialLeadHandler) Update(c *gin.Context) {
	var req dto.UpdateTrialLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lead payload"))
		return
	}
	lead, err := h.leads.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lead, nil)
}

// Reminder godoc
// @Summary Send the trial reminder
// @Tags TrialLeads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param payload body dto.SendReminderRequest false "Message override"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /trial-leads/{id}/reminder [post]
func (h *TrialLeadHandler) Reminder(c *gin.Context) {
	var req dto.SendReminderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reminder payload"))
			return
		}
	}
	lead, err := h.leads.SendReminder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lead, nil)
}
