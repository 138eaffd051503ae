package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nefera/internal/domain"
	"nefera/internal/handler"
	mocks "nefera/mocks/servicemocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(svc *mocks.MockEvaluationService) *gin.Engine {
	evalH := handler.NewEvaluationHandler(svc)
	reportH := handler.NewReportHandler(svc)

	r := gin.New()
	evals := r.Group("/api/v1/evaluations")
	{
		evals.POST("/run", evalH.Run)
		evals.GET("", evalH.List)
		evals.GET("/export/csv", reportH.ExportCSV)
		evals.GET("/:id", evalH.GetByID)
		evals.GET("/:id/audit", evalH.AuditTrail)
	}
	return r
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Bytes(), &out))
	return out
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, filename := range fields {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.4 fake"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestRun_MissingResumeFile(t *testing.T) {
	svc := new(mocks.MockEvaluationService)
	r := newRouter(svc)

	body, contentType := multipartBody(t, map[string]string{"job_description": "job.pdf"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations/run", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "MISSING_FILE", env["error"].(map[string]interface{})["code"])
	svc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestRun_Success(t *testing.T) {
	svc := new(mocks.MockEvaluationService)
	ev := &domain.Evaluation{ID: uuid.New(), Status: domain.EvaluationStatusCompleted}
	svc.On("Run", mock.Anything, mock.Anything).Return(ev, nil).Once()
	r := newRouter(svc)

	body, contentType := multipartBody(t, map[string]string{
		"resume":          "resume.pdf",
		"job_description": "job.pdf",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations/run", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.Equal(t, true, env["success"])
	data := env["data"].(map[string]interface{})
	assert.Equal(t, ev.ID.String(), data["id"])
	svc.AssertExpectations(t)
}

func TestRun_ExtractionFailureMapsTo422(t *testing.T) {
	svc := new(mocks.MockEvaluationService)
	svc.On("Run", mock.Anything, mock.Anything).Return(nil, domain.ErrExtractionFailed).Once()
	r := newRouter(svc)

	body, contentType := multipartBody(t, map[string]string{
		"resume":          "resume.pdf",
		"job_description": "job.pdf",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations/run", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.Equal(t, "EXTRACTION_FAILED", env["error"].(map[string]interface{})["code"])
}

func TestGetByID_InvalidID(t *testing.T) {
	svc := new(mocks.MockEvaluationService)
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.Equal(t, "INVALID_ID", env["error"].(map[string]interface{})["code"])
}

func TestGetByID_NotFound(t *testing.T) {
	svc := new(mocks.MockEvaluationService)
	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound).Once()
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.Equal(t, "NOT_FOUND", env["error"].(map[string]interface{})["code"])
	svc.AssertExpectations(t)
}

func TestList_PaginationDefaultsAndMeta(t *testing.T) {
	svc := new(mocks.MockEvaluationService)
	svc.On("List", mock.Anything, 0, 20).
		Return([]domain.Evaluation{{ID: uuid.New()}}, 42, nil).Once()
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body)
	meta := env["meta"].(map[string]interface{})
	assert.Equal(t, float64(42), meta["total"])
	assert.Equal(t, float64(0), meta["offset"])
	assert.Equal(t, float64(20), meta["limit"])
	svc.AssertExpectations(t)
}

func TestList_ClampsOutOfRangeParams(t *testing.T) {
	svc := new(mocks.MockEvaluationService)
	svc.On("List", mock.Anything, 0, 20).Return([]domain.Evaluation{}, 0, nil).Once()
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations?offset=-5&limit=500", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAuditTrail(t *testing.T) {
	svc := new(mocks.MockEvaluationService)
	id := uuid.New()
	svc.On("AuditTrail", mock.Anything, id).
		Return([]domain.AuditEvent{{EvaluationID: id, EventType: domain.AuditEvaluationCreated}}, nil).Once()
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/"+id.String()+"/audit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body)
	events := env["data"].([]interface{})
	require.Len(t, events, 1)
	assert.Equal(t, "evaluation_created",
		events[0].(map[string]interface{})["event_type"])
	svc.AssertExpectations(t)
}

func TestExportCSV(t *testing.T) {
	svc := new(mocks.MockEvaluationService)
	svc.On("List", mock.Anything, 0, 200).
		Return([]domain.Evaluation{{ID: uuid.New()}}, 1, nil).Once()
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/export/csv", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	body := w.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(body), "Evaluation ID")
	svc.AssertExpectations(t)
}
