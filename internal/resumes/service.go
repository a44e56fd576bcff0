package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/storage/object"
	"recruit-backend/internal/shared/telemetry"
)

// ErrNotPDF is returned when an uploaded file does not sniff as a PDF.
var ErrNotPDF = errors.New("only PDF files are accepted")

// Service contains business logic for resumes.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Queue queue.Client
}

// Upload validates, stores, and records an uploaded resume, then enqueues the
// extraction job. Validation happens on the sniffed content, not the file
// name: anything that is not a PDF is rejected before any object is written
// or any job enqueued.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Resume, error) {
	if strings.TrimSpace(fileName) == "" {
		return Resume{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Resume{}, err
	}
	head = head[:n]
	if http.DetectContentType(head) != "application/pdf" {
		return Resume{}, ErrNotPDF
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	storageKey, size, _, err := s.Store.Save(ctx, userID, fileName, body)
	if err != nil {
		return Resume{}, err
	}

	resume := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		StorageKey: storageKey,
		Status:     StatusUploaded,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}

	s.enqueueParse(ctx, resume, size)
	return resume, nil
}

// enqueueParse hands the stored resume to the worker. A broker outage here is
// not fatal to the upload: the record stays in uploaded and analysis can be
// re-triggered once the broker is back.
func (s *Service) enqueueParse(ctx context.Context, resume Resume, size int64) {
	if s.Queue == nil {
		return
	}
	msg, err := queue.NewMessage(queue.KindParseResume, queue.ParseResumePayload{
		ResumeID:   resume.ID,
		StorageKey: resume.StorageKey,
		FileName:   resume.FileName,
	})
	if err != nil {
		telemetry.Error("resumes.enqueue_parse.encode_failed", map[string]any{
			"resume_id": resume.ID,
			"err":       err.Error(),
		})
		return
	}
	if err := s.Queue.Enqueue(ctx, msg); err != nil {
		telemetry.Error("resumes.enqueue_parse.failed", map[string]any{
			"resume_id": resume.ID,
			"task_id":   msg.TaskID,
			"err":       err.Error(),
		})
		return
	}
	telemetry.Info("resumes.enqueue_parse", map[string]any{
		"resume_id":  resume.ID,
		"task_id":    msg.TaskID,
		"size_bytes": size,
	})
}

// Get returns a resume by id.
func (s *Service) Get(ctx context.Context, resumeID string) (Resume, error) {
	if strings.TrimSpace(resumeID) == "" {
		return Resume{}, fmt.Errorf("%w: resume id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, resumeID)
}

// List returns a user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}
