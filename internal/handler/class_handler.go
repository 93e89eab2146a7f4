package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/pkg/response"
)

type classReader interface {
	List(ctx context.Context, unit string) ([]models.Class, error)
	Roster(ctx context.Context, id string) (*models.ClassRoster, error)
}

type enrollmentReader interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
}

// ClassHandler exposes classes and enrollments.
type ClassHandler struct {
	classes     classReader
	enrollments enrollmentReader
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(classes classReader, enrollments enrollmentReader) *ClassHandler {
	return &ClassHandler{classes: classes, enrollments: enrollments}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param unit query string false "Filter by unit"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classes.List(c.Request.Context(), c.Query("unit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Roster godoc
// @Summary Class roster and occupancy
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id}/roster [get]
func (h *ClassHandler) Roster(c *gin.Context) {
	roster, err := h.classes.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// Enrollments godoc
// @Summary List active enrollments
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param student_id query string false "Filter by student"
// @Param class_id query string false "Filter by class (course name)"
// @Param unit query string false "Filter by unit"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *ClassHandler) Enrollments(c *gin.Context) {
	filter := models.EnrollmentFilter{
		StudentID: c.Query("student_id"),
		ClassID:   c.Query("class_id"),
		Unit:      c.Query("unit"),
	}
	enrollments, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}
