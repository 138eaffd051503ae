package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nefera/internal/middleware"
	"nefera/internal/service"
)

// EvaluationHandler handles evaluation run and query endpoints.
type EvaluationHandler struct {
	evalService service.EvaluationService
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(evalService service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evalService: evalService}
}

// Run handles POST /api/v1/evaluations/run
// Expects multipart form fields "resume" and "job_description", both PDFs.
func (h *EvaluationHandler) Run(c *gin.Context) {
	resumeFile, resumeHeader, err := c.Request.FormFile("resume")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "resume field is required")
		return
	}
	defer func() { _ = resumeFile.Close() }()

	jobFile, jobHeader, err := c.Request.FormFile("job_description")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "job_description field is required")
		return
	}
	defer func() { _ = jobFile.Close() }()

	input := service.RunInput{
		RequestID: middleware.GetRequestID(c),
		Resume:    service.UploadedFile{File: resumeFile, Header: resumeHeader},
		Job:       service.UploadedFile{File: jobFile, Header: jobHeader},
	}

	ev, err := h.evalService.Run(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, ev)
}

// GetByID handles GET /api/v1/evaluations/:id
func (h *EvaluationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid evaluation id")
		return
	}

	ev, err := h.evalService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ev)
}

// List handles GET /api/v1/evaluations
func (h *EvaluationHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	evs, total, err := h.evalService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, evs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// AuditTrail handles GET /api/v1/evaluations/:id/audit
func (h *EvaluationHandler) AuditTrail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid evaluation id")
		return
	}

	events, err := h.evalService.AuditTrail(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, events)
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
