package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nefera/internal/config"
	"nefera/internal/domain"
	"nefera/internal/port"
	"nefera/mocks"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func uploadedFile(filename string, data []byte) UploadedFile {
	return UploadedFile{
		File:   memFile{bytes.NewReader(data)},
		Header: &multipart.FileHeader{Filename: filename, Size: int64(len(data))},
	}
}

func newServiceForStore(storage port.ObjectStorage, docRepo port.DocumentRepository) *evaluationService {
	return &evaluationService{
		docRepo: docRepo,
		storage: storage,
		s3cfg:   &config.S3Config{Bucket: "test-bucket", MaxFileSizeMB: 1},
	}
}

func TestStoreDocument_Success(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Key: "key"}, nil).Once()

	docRepo := new(mocks.MockDocumentRepo)
	docRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	s := newServiceForStore(storage, docRepo)
	data := []byte("%PDF-1.4 body")

	doc, got, err := s.storeDocument(context.Background(), domain.DocumentKindResume, uploadedFile("resume.pdf", data))
	require.NoError(t, err)

	assert.Equal(t, data, got)
	assert.Equal(t, domain.DocumentKindResume, doc.Kind)
	assert.Equal(t, "resume.pdf", doc.Filename)
	assert.Equal(t, int64(len(data)), doc.SizeBytes)
	assert.Len(t, doc.SHA256, 64)
	assert.Contains(t, doc.StorageKey, "documents/resume/")
	storage.AssertExpectations(t)
	docRepo.AssertExpectations(t)
}

func TestStoreDocument_RejectsNonPDFExtension(t *testing.T) {
	s := newServiceForStore(nil, nil)
	_, _, err := s.storeDocument(context.Background(), domain.DocumentKindResume, uploadedFile("resume.docx", []byte("%PDF-")))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestStoreDocument_RejectsOversizedFile(t *testing.T) {
	s := newServiceForStore(nil, nil)
	upload := uploadedFile("resume.pdf", []byte("%PDF-"))
	upload.Header.Size = 2 * 1024 * 1024

	_, _, err := s.storeDocument(context.Background(), domain.DocumentKindResume, upload)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestStoreDocument_RejectsEmptyFile(t *testing.T) {
	s := newServiceForStore(nil, nil)
	_, _, err := s.storeDocument(context.Background(), domain.DocumentKindResume, uploadedFile("resume.pdf", nil))
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestStoreDocument_RejectsMissingFile(t *testing.T) {
	s := newServiceForStore(nil, nil)
	_, _, err := s.storeDocument(context.Background(), domain.DocumentKindResume, UploadedFile{})
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestStoreDocument_RejectsSpoofedContentType(t *testing.T) {
	s := newServiceForStore(nil, nil)
	_, _, err := s.storeDocument(context.Background(), domain.DocumentKindResume, uploadedFile("resume.pdf", []byte("plain text pretending")))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestStoreDocument_UploadFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()

	s := newServiceForStore(storage, nil)
	_, _, err := s.storeDocument(context.Background(), domain.DocumentKindResume, uploadedFile("resume.pdf", []byte("%PDF-1.4")))
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestRun_MissingRubricFailsBeforeUpload(t *testing.T) {
	s := &evaluationService{rubricPath: "does/not/exist.json"}
	_, err := s.Run(context.Background(), RunInput{})
	assert.ErrorIs(t, err, domain.ErrMissingRubric)
}

func TestGetByID_Passthrough(t *testing.T) {
	evalRepo := new(mocks.MockEvaluationRepo)
	id := uuid.New()
	ev := &domain.Evaluation{ID: id}
	evalRepo.On("GetByID", mock.Anything, id).Return(ev, nil).Once()

	s := &evaluationService{evalRepo: evalRepo}
	got, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
	evalRepo.AssertExpectations(t)
}

func TestList_Passthrough(t *testing.T) {
	evalRepo := new(mocks.MockEvaluationRepo)
	evalRepo.On("List", mock.Anything, 10, 20).
		Return([]domain.Evaluation{{ID: uuid.New()}}, 55, nil).Once()

	s := &evaluationService{evalRepo: evalRepo}
	evs, total, err := s.List(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Len(t, evs, 1)
	assert.Equal(t, 55, total)
}

func TestAuditTrail_ChecksEvaluationExists(t *testing.T) {
	evalRepo := new(mocks.MockEvaluationRepo)
	id := uuid.New()
	evalRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound).Once()

	s := &evaluationService{evalRepo: evalRepo}
	_, err := s.AuditTrail(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuditTrail_ReturnsEvents(t *testing.T) {
	evalRepo := new(mocks.MockEvaluationRepo)
	auditRepo := new(mocks.MockAuditRepo)
	id := uuid.New()
	evalRepo.On("GetByID", mock.Anything, id).Return(&domain.Evaluation{ID: id}, nil).Once()
	auditRepo.On("ListByEvaluation", mock.Anything, id).
		Return([]domain.AuditEvent{{EvaluationID: id, EventType: domain.AuditEvaluationCreated}}, nil).Once()

	s := &evaluationService{evalRepo: evalRepo, auditRepo: auditRepo}
	events, err := s.AuditTrail(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditEvaluationCreated, events[0].EventType)
}
