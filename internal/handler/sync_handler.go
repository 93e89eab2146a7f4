package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sfk-console-api/internal/dto"
	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
	"github.com/noah-isme/sfk-console-api/pkg/response"
	"github.com/noah-isme/sfk-console-api/pkg/sheets"
)

// maxWorkbookSize bounds uploaded spreadsheets.
const maxWorkbookSize = 20 << 20

type syncRunner interface {
	Sync(ctx context.Context, mode models.SyncMode) models.SyncResult
	Import(ctx context.Context, mode models.SyncMode, payload sheets.Payload) models.SyncResult
	Status(ctx context.Context) (models.SyncStatus, error)
}

type workbookArchiver interface {
	Save(original string, r io.Reader) (string, error)
}

// SyncHandler triggers and reports on synchronization with the spreadsheet.
type SyncHandler struct {
	sync    syncRunner
	archive workbookArchiver
	logger  *zap.Logger
}

// NewSyncHandler constructs SyncHandler. archive may be nil.
func NewSyncHandler(sync syncRunner, archive workbookArchiver, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{sync: sync, archive: archive, logger: logger}
}

// Run godoc
// @Summary Synchronize now
// @Description Pull every section from the spreadsheet endpoint. The result is returned even on failure.
// @Tags Sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SyncRequest false "Mode, manual by default"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /sync [post]
func (h *SyncHandler) Run(c *gin.Context) {
	var req dto.SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sync payload"))
			return
		}
	}
	mode := models.SyncMode(req.Mode)
	switch mode {
	case "":
		mode = models.SyncManual
	case models.SyncManual, models.SyncSilent:
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "mode must be silent or manual"))
		return
	}
	respondSync(c, h.sync.Sync(c.Request.Context(), mode))
}

// Upload godoc
// @Summary Import a workbook
// @Description Apply an .xlsx export of the spreadsheet through the same mappers as a sync
// @Tags Sync
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Workbook"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sync/workbook [post]
func (h *SyncHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "arquivo ausente"))
		return
	}
	if file.Size > maxWorkbookSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "arquivo muito grande"))
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "arquivo ilegível"))
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxWorkbookSize))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "arquivo ilegível"))
		return
	}
	payload, err := sheets.ReadWorkbook(bytes.NewReader(raw))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "planilha inválida"))
		return
	}
	if h.archive != nil {
		if name, err := h.archive.Save(file.Filename, bytes.NewReader(raw)); err != nil {
			h.logger.Warn("workbook not archived", zap.Error(err))
		} else {
			h.logger.Info("workbook archived", zap.String("file", name))
		}
	}
	respondSync(c, h.sync.Import(c.Request.Context(), models.SyncManual, payload))
}

// Status godoc
// @Summary Sync status
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	status, err := h.sync.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

func respondSync(c *gin.Context, result models.SyncResult) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	response.JSON(c, status, result, nil)
}
