package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docupload/internal/client/models"
	"github.com/dmitrijs2005/docupload/internal/client/repositories/runs"
	"github.com/dmitrijs2005/docupload/internal/client/upload"
	"github.com/dmitrijs2005/docupload/internal/filex"
	"github.com/dmitrijs2005/docupload/internal/logging"
	"github.com/google/uuid"
)

// Uploader is the part of upload.Orchestrator the service depends on.
type Uploader interface {
	UploadAll(ctx context.Context, files []upload.FileHandle) (upload.Result, error)
}

// Report describes a finished upload command.
type Report struct {
	Result upload.Result
	Run    *models.Run

	// Bytes is the total size of the files selected for upload.
	Bytes int64
}

type UploadService interface {
	Upload(ctx context.Context, paths []string) (*Report, error)
	History(ctx context.Context, limit int) ([]*models.Run, error)
}

type uploadService struct {
	uploader Uploader
	runs     runs.Repository
	policy   upload.Policy
	logger   logging.Logger
	now      func() time.Time
}

func NewUploadService(uploader Uploader, runs runs.Repository, policy upload.Policy, logger logging.Logger) UploadService {
	return &uploadService{
		uploader: uploader,
		runs:     runs,
		policy:   policy,
		logger:   logger.With("module", "upload_service"),
		now:      time.Now,
	}
}

// Upload expands paths into files, uploads them and journals the run. The
// returned Report is non-nil whenever the upload itself was attempted, even
// if it failed.
func (s *uploadService) Upload(ctx context.Context, paths []string) (*Report, error) {
	selected, err := filex.CollectFiles(paths)
	if err != nil {
		return nil, err
	}

	files := make([]upload.FileHandle, 0, len(selected))
	var total int64
	for _, p := range selected {
		f, err := upload.NewLocalFile(p)
		if err != nil {
			return nil, err
		}
		total += f.Size()
		files = append(files, f)
	}

	started := s.now()
	res, uploadErr := s.uploader.UploadAll(ctx, files)

	run := &models.Run{
		ID:         uuid.NewString(),
		StartedAt:  started,
		FinishedAt: s.now(),
		Policy:     string(s.policy),
		Requested:  len(files),
		Uploaded:   res.Uploaded(),
		Failed:     len(res.Failures),
	}
	if uploadErr != nil {
		run.Error = uploadErr.Error()
	}
	for _, d := range res.Documents {
		run.Documents = append(run.Documents, models.RunDocument{RunID: run.ID, DocumentID: d.ID, Name: d.Name})
	}

	// A cancelled upload is still journaled.
	if err := s.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error(ctx, "failed to save run", "run", run.ID, "err", err)
	}

	return &Report{Result: res, Run: run, Bytes: total}, uploadErr
}

func (s *uploadService) History(ctx context.Context, limit int) ([]*models.Run, error) {
	if limit < 1 {
		return nil, fmt.Errorf("history limit must be positive, got %d", limit)
	}
	return s.runs.List(ctx, limit)
}
