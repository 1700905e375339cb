package upload

import "context"

// Pipeline turns one file into a stored document.
type Pipeline interface {
	Process(ctx context.Context, file FileHandle) (Document, error)
}

// PipelineFunc adapts a function to Pipeline.
type PipelineFunc func(ctx context.Context, file FileHandle) (Document, error)

func (f PipelineFunc) Process(ctx context.Context, file FileHandle) (Document, error) {
	return f(ctx, file)
}

type negotiateTransfer struct {
	negotiator Negotiator
	transferer Transferer
}

// NewPipeline negotiates and then transfers each file.
func NewPipeline(n Negotiator, t Transferer) Pipeline {
	return &negotiateTransfer{negotiator: n, transferer: t}
}

func (p *negotiateTransfer) Process(ctx context.Context, file FileHandle) (Document, error) {
	neg, err := p.negotiator.Negotiate(ctx, file)
	if err != nil {
		return Document{}, err
	}
	return p.transferer.Transfer(ctx, file, neg)
}
