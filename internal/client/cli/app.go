package cli

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/docupload/internal/client/config"
	"github.com/dmitrijs2005/docupload/internal/client/services"
	"github.com/dmitrijs2005/docupload/internal/client/store"
	"github.com/dmitrijs2005/docupload/internal/client/upload"
	"github.com/dmitrijs2005/docupload/internal/logging"
)

// ServiceFactory builds the upload service for one command invocation. The
// returned closer releases what the service holds.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger logging.Logger) (services.UploadService, io.Closer, error)

type App struct {
	config *config.Config

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	newService  ServiceFactory
	readSecret  func(prompt string) (string, error)
	askToken    bool
	historySize int
}

type Option func(*App)

func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) { a.stdout, a.stderr = stdout, stderr }
}

func WithInput(stdin io.Reader) Option {
	return func(a *App) { a.stdin = stdin }
}

func WithServiceFactory(f ServiceFactory) Option {
	return func(a *App) { a.newService = f }
}

func NewApp(cfg *config.Config, opts ...Option) *App {
	a := &App{
		config:      cfg,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		newService:  NewUploadService,
		historySize: 20,
	}
	a.readSecret = a.readTerminalSecret
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewUploadService wires the HTTP pipeline, the orchestrator and the local
// run journal from cfg.
func NewUploadService(ctx context.Context, cfg *config.Config, logger logging.Logger) (services.UploadService, io.Closer, error) {
	policy, err := upload.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, nil, err
	}
	mode, err := upload.ParseDescriptorMode(cfg.DescriptorMode)
	if err != nil {
		return nil, nil, err
	}

	repos, err := store.InitDatabase(ctx, cfg.StatePath)
	if err != nil {
		return nil, nil, err
	}

	client := &http.Client{Timeout: cfg.RequestTimeout}
	pipeline := upload.NewPipeline(
		upload.NewHTTPNegotiator(client, cfg.InformationEndpoint, mode,
			upload.WithToken(cfg.Token), upload.WithCorpus(cfg.Corpus)),
		upload.NewHTTPTransferer(client, mode),
	)

	orch, err := upload.NewOrchestrator(pipeline,
		upload.WithBatchSize(cfg.BatchSize),
		upload.WithPolicy(policy),
		upload.WithLogger(logger),
	)
	if err != nil {
		_ = repos.Close()
		return nil, nil, err
	}

	return services.NewUploadService(orch, repos.Runs, policy, logger), repos, nil
}

func (a *App) logger() (logging.Logger, error) {
	return logging.New(a.stderr, a.config.LogLevel, logging.FormatText)
}
