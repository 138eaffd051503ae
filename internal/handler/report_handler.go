package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nefera/internal/export"
	"nefera/internal/service"
)

// exportBatchLimit caps how many evaluations one export pulls.
const exportBatchLimit = 200

// ReportHandler serves evaluation exports.
type ReportHandler struct {
	evalService service.EvaluationService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(evalService service.EvaluationService) *ReportHandler {
	return &ReportHandler{evalService: evalService}
}

// ExportCSV handles GET /api/v1/evaluations/export/csv
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	evs, _, err := h.evalService.List(c.Request.Context(), 0, exportBatchLimit)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("evaluations_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(export.BOM); err != nil {
		return
	}
	w := export.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteEvaluations(evs); err != nil {
		return
	}
	w.Flush()
}

// ExportXLSX handles GET /api/v1/evaluations/export/xlsx
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	evs, _, err := h.evalService.List(c.Request.Context(), 0, exportBatchLimit)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, evs); err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("evaluations_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
