// Command intelctl is the operator CLI for the meeting intelligence service.
// It talks to the database directly, not through the HTTP API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/app"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	pkglogger "github.com/johnquangdev/meeting-intelligence/pkg/logger"
)

// env carries what every command needs; tests replace the loaders
type env struct {
	loadConfig func() (*config.Config, error)
	newLogger  func(cfg *config.Config) (*zap.Logger, error)
	out        io.Writer
	actor      string
}

func defaultEnv() *env {
	return &env{
		loadConfig: config.Load,
		newLogger: func(cfg *config.Config) (*zap.Logger, error) {
			return pkglogger.New(cfg.Log, cfg.IsProduction())
		},
		out: os.Stdout,
	}
}

func (e *env) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	logger, err := e.newLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logger, nil
}

// open builds the application. Operator batches are not rate limited.
func (e *env) open(ctx context.Context) (*app.App, error) {
	cfg, logger, err := e.setup()
	if err != nil {
		return nil, err
	}
	cfg.Ingest.Cooldown = 0
	return app.New(ctx, cfg, logger, app.Options{})
}

func (e *env) printf(format string, args ...interface{}) {
	fmt.Fprintf(e.out, format, args...)
}

func newRootCommand(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "intelctl",
		Short:         "Operate the meeting intelligence service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&e.actor, "actor", "intelctl", "Actor recorded in the audit log")

	root.AddCommand(
		newIngestCommand(e),
		newDuplicatesCommand(e),
		newMergeCommand(e),
		newSuggestionsCommand(e),
		newMigrateCommand(e),
	)
	root.SetOut(e.out)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(defaultEnv()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
