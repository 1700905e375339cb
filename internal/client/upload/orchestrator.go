package upload

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Orchestrator uploads many files through a Pipeline in bounded slices.
type Orchestrator struct {
	pipeline  Pipeline
	batchSize int
	policy    Policy
	logger    logging.Logger
}

type Option func(*Orchestrator)

// WithBatchSize sets the maximum number of files uploaded concurrently.
func WithBatchSize(n int) Option {
	return func(o *Orchestrator) { o.batchSize = n }
}

// WithPolicy selects how pipeline failures are handled.
func WithPolicy(p Policy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func NewOrchestrator(p Pipeline, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		pipeline:  p,
		batchSize: common.DefaultBatchSize,
		policy:    PolicyStrict,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.batchSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, o.batchSize)
	}
	if _, err := ParsePolicy(string(o.policy)); err != nil {
		return nil, err
	}
	o.logger = o.logger.With("module", "orchestrator")
	return o, nil
}

// Upload runs UploadAll and hands its outcome to onComplete, which is called
// exactly once. An aborted run is reported as an empty Result and the error.
func (o *Orchestrator) Upload(ctx context.Context, files []FileHandle, onComplete func(Result, error)) {
	res, err := o.UploadAll(ctx, files)
	if err != nil {
		// An aborted run reports its error instead of a result.
		res = Result{}
	}
	if onComplete != nil {
		onComplete(res, err)
	}
}

// UploadAll uploads files slice by slice. Within a slice every file is
// dispatched at once; the next slice starts only after all pipelines of the
// current one have settled.
//
// Under PolicyStrict the first slice with a failure ends the run: no further
// slice is started and the error of the first failed file is returned. Under
// PolicyTolerant failures are collected in Result.Failures and the run always
// reaches the last slice.
//
// A cancelled ctx stops the run before the next slice is dispatched.
//
// When the run is aborted the returned Result still holds what the settled
// slices produced, so callers can record documents that were already stored.
func (o *Orchestrator) UploadAll(ctx context.Context, files []FileHandle) (Result, error) {
	total := BatchCount(len(files), o.batchSize)
	res := Result{Requested: len(files)}
	c := &collector{}

	o.logger.Info(ctx, "upload started", "files", len(files), "slices", total, "policy", string(o.policy))

	slice := 0
	for batch := range Batches(files, o.batchSize) {
		slice++

		if err := ctx.Err(); err != nil {
			o.logger.Warn(ctx, "upload aborted", "slice", slice, "err", err)
			res.Documents, res.Failures = c.snapshot()
			return res, err
		}

		o.logger.Debug(ctx, "dispatching slice", "slice", slice, "of", total, "files", len(batch))
		err := o.runSlice(ctx, batch, c)
		res.Batches++
		o.logger.Debug(ctx, "slice settled", "slice", slice, "of", total)

		if err != nil {
			o.logger.Error(ctx, "upload aborted", "slice", slice, "err", err)
			res.Documents, res.Failures = c.snapshot()
			return res, err
		}
	}

	res.Documents, res.Failures = c.snapshot()

	o.logger.Info(ctx, "upload finished",
		"requested", res.Requested, "uploaded", res.Uploaded(), "failed", len(res.Failures))

	return res, nil
}

// runSlice returns a non-nil error only under PolicyStrict.
func (o *Orchestrator) runSlice(ctx context.Context, batch []FileHandle, c *collector) error {
	var g errgroup.Group

	for _, file := range batch {
		g.Go(func() error {
			doc, err := o.pipeline.Process(ctx, file)
			if err != nil {
				c.fail(file.Name(), err)
				if o.policy == PolicyTolerant {
					o.logger.Warn(ctx, "file skipped", "file", file.Name(), "err", err)
					return nil
				}
				return fmt.Errorf("upload %q: %w", file.Name(), err)
			}
			c.add(doc)
			return nil
		})
	}

	return g.Wait()
}
