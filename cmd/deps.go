package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/datadrill/internal/config"
	"github.com/abhisek/datadrill/internal/enrich"
	"github.com/abhisek/datadrill/internal/llm"
	"github.com/abhisek/datadrill/internal/logging"
	"github.com/abhisek/datadrill/internal/problem"
	"github.com/abhisek/datadrill/internal/session"
	"github.com/abhisek/datadrill/internal/store"
)

// deps is everything a command needs to run a practice session.
type deps struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	orch    *enrich.Orchestrator
	machine *session.Machine
}

// Close stops the session, waits for outstanding commentary and releases
// the database.
func (d *deps) Close() {
	if d.machine != nil {
		d.machine.Close()
	}
	if d.orch != nil {
		d.orch.Close()
	}
	if d.store != nil {
		d.store.Close()
	}
	_ = d.logger.Sync()
}

// offlineGenerator stands in when no model provider is configured. Every
// generation fails with the usual message.
type offlineGenerator struct{ err error }

func (g offlineGenerator) Generate(context.Context, problem.Category, problem.Difficulty) (*problem.ProblemSet, error) {
	return nil, g.err
}

// loadConfig reads the config file named by --config and applies the
// command's flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file, cmd.Flags())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the audit log database at the configured path, or the
// default per-user location.
func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.DB.Path
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create DB directory: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// buildDeps wires config, logging, the audit log, the model provider and a
// session machine. terminal selects the logger for the full-screen UI.
// onSettle, when set, receives every commentary settlement.
func buildDeps(cmd *cobra.Command, terminal bool, onSettle func(enrich.Settled)) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	newLogger := logging.New
	if terminal {
		newLogger = logging.ForTerminal
	}
	logger, err := newLogger(cfg.Log, verbose)
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, logger: logger}
	d.store, err = openStore(cfg)
	if err != nil {
		d.Close()
		return nil, err
	}

	var gen problem.Generator
	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, d.store.EventRepo(), logger)
	switch {
	case err == nil:
		gen = problem.New(provider, problem.DefaultConfig(), logger)

		var opts []enrich.Option
		opts = append(opts, enrich.WithLogger(logger))
		if cfg.Practice.EnrichTimeout > 0 {
			opts = append(opts, enrich.WithTimeout(cfg.Practice.EnrichTimeout))
		}
		d.orch = enrich.New(enrich.NewLLMCollaborator(provider), opts...)
	case errors.Is(err, llm.ErrNotConfigured):
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Problems cannot be generated until an API key is set.")
		gen = offlineGenerator{err: err}
	default:
		d.Close()
		return nil, err
	}

	sopts := []session.Option{session.WithLogger(logger)}
	if cfg.Practice.Tick > 0 {
		sopts = append(sopts, session.WithClock(session.NewClock(cfg.Practice.Tick)))
	}
	if onSettle != nil {
		sopts = append(sopts, session.WithSettleHook(onSettle))
	}
	d.machine = session.New(gen, d.orch, sopts...)
	return d, nil
}
