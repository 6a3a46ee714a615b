package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ziadkadry99/cdp-assistant/internal/assistant"
	"github.com/ziadkadry99/cdp-assistant/internal/backlog"
	"github.com/ziadkadry99/cdp-assistant/internal/bots"
	"github.com/ziadkadry99/cdp-assistant/internal/config"
	"github.com/ziadkadry99/cdp-assistant/internal/db"
	"github.com/ziadkadry99/cdp-assistant/internal/logging"
)

// dbFileName is the backlog database inside data_dir.
const dbFileName = "cdpassist.db"

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `cdpassist init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setupLogging installs the slog default logger from the config.
func setupLogging(cfg *config.Config) (io.Closer, error) {
	opts := cfg.LoggingOptions()
	if verbose {
		opts.Level = "debug"
	}
	return logging.Setup(opts)
}

// bootstrap loads the config and sets up logging. Callers close the
// returned closer when the command ends.
func bootstrap() (*config.Config, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	closer, err := setupLogging(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, closer, nil
}

// openBacklog opens the backlog database in the configured data directory.
func openBacklog(cfg *config.Config) (*db.DB, *backlog.Store, error) {
	path := filepath.Join(cfg.DataDir, dbFileName)
	database, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening backlog database %s: %w", path, err)
	}
	return database, backlog.NewStore(database), nil
}

// runtime bundles what the commands share. db and backlog are nil when
// recording is disabled or the database could not be opened.
type runtime struct {
	cfg       *config.Config
	assistant *assistant.Assistant
	db        *db.DB
	backlog   *backlog.Store
}

// Close releases the database, if one is open.
func (rt *runtime) Close() error {
	if rt.db == nil {
		return nil
	}
	return rt.db.Close()
}

// backlogLister returns the backlog as a bots.BacklogLister, keeping the
// interface nil when no backlog is attached.
func (rt *runtime) backlogLister() bots.BacklogLister {
	if rt.backlog == nil {
		return nil
	}
	return rt.backlog
}

// buildRuntime loads the knowledge base and creates the assistant. When
// recording is enabled the backlog is opened too; a backlog that cannot be
// opened is logged and skipped.
func buildRuntime(cfg *config.Config) (*runtime, error) {
	base, err := cfg.KnowledgeBase()
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}
	opts := []assistant.Option{assistant.WithFallback(cfg.Fallback)}

	if !noRecord {
		database, store, err := openBacklog(cfg)
		if err != nil {
			slog.Warn("backlog_unavailable", slog.String("error", err.Error()))
		} else {
			rt.db = database
			rt.backlog = store
			opts = append(opts, assistant.WithRecorder(store))
		}
	}

	rt.assistant = assistant.New(base, opts...)
	return rt, nil
}
