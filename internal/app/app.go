// Package app assembles the graphication pipeline from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Aequivinius/lodqa/internal/config"
	"github.com/Aequivinius/lodqa/internal/graph"
	"github.com/Aequivinius/lodqa/internal/graphicator"
	"github.com/Aequivinius/lodqa/internal/parser"
)

// App holds the wired components of one process.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Graphicator *graphicator.Graphicator
	Archive     graph.Store // nil when store.kind is none
}

// New opens the archive and builds the graphicator described by cfg. Close
// releases the archive.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	archive, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	adapter := parser.New(cfg.Parser.Vendor, parser.Options{
		EnjuURL:  cfg.Parser.EnjuURL,
		SpacyURL: cfg.Parser.SpacyURL,
		Timeout:  cfg.Parser.Timeout,
		Logger:   logger,
	})
	opts := []graphicator.Option{graphicator.WithLogger(logger)}
	if archive != nil {
		opts = append(opts, graphicator.WithArchive(archive))
	}

	logger.Debug("pipeline ready", "parser", adapter.Name(), "store", cfg.Store.Kind)
	return &App{
		Config:      cfg,
		Logger:      logger,
		Graphicator: graphicator.New(parser.NewCoordinator(adapter, logger), opts...),
		Archive:     archive,
	}, nil
}

// Close releases the archive, if any.
func (a *App) Close() error {
	if a.Archive == nil {
		return nil
	}
	return a.Archive.Close()
}

// OpenStore opens the archive selected by cfg and initializes its schema.
// It returns nil for kind none.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (graph.Store, error) {
	var (
		s   graph.Store
		err error
	)
	switch cfg.Kind {
	case "", config.StoreNone:
		return nil, nil
	case config.StoreMemory:
		s = graph.NewMemStore()
	case config.StoreKuzu:
		s, err = openKuzu(cfg.Path)
	default:
		return nil, fmt.Errorf("app: unknown store kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("app: open %s store: %w", cfg.Kind, err)
	}

	if err := s.InitSchema(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("app: init %s store: %w", cfg.Kind, err)
	}
	return s, nil
}
