package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/pkg/response"
)

type studentReader interface {
	List(ctx context.Context, filter models.StudentFilter, page, size int) ([]models.Student, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Student, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentReader
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentReader) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name"
// @Param status query string false "Ativo, Cancelado or Lead"
// @Param unit query string false "Filter by unit"
// @Param stage query string false "Filter by school stage"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Status: models.StudentStatus(strings.TrimSpace(c.Query("status"))),
		Unit:   strings.TrimSpace(c.Query("unit")),
		Stage:  strings.TrimSpace(c.Query("stage")),
		Search: strings.TrimSpace(c.Query("search")),
	}
	students, pagination, err := h.students.List(c.Request.Context(), filter, queryInt(c, "page", 1), queryInt(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}
