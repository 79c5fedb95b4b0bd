package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/api"
	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/log"
	"github.com/mmcdole/reel/internal/player"
	"github.com/mmcdole/reel/internal/router"
	"github.com/mmcdole/reel/internal/session"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/spf13/cobra"
)

// app is the composition root shared by the TUI and the subcommands
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer

	tokens     *store.TokenStore
	client     *api.Client
	session    *session.Session
	categories *catalog.Categories
	videos     *catalog.Videos
	guard      *router.Guard
	launcher   *player.Launcher
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadConfig()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newApp wires every component from cfg
func newApp(cfg *config.Config) (*app, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: run 'reel setup' first", domain.ErrNotConfigured)
	}

	logger, closer, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
		closer = nil
	}
	slog.SetDefault(logger)

	storePath, err := config.ExpandPath(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	tokens, err := store.NewTokenStore(storePath, cfg.API.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client := api.NewClient(cfg.API.URL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithMaxRetries(cfg.API.MaxRetries),
		api.WithRateLimit(cfg.API.RequestsPerSecond),
		api.WithLogger(logger),
	)

	return &app{
		cfg:        cfg,
		logger:     logger,
		logCloser:  closer,
		tokens:     tokens,
		client:     client,
		session:    session.New(client, tokens, logger),
		categories: catalog.NewCategories(client, logger),
		videos:     catalog.NewVideos(client, client, cfg.UI.PerPage, logger),
		guard:      router.NewGuard(tokens, logger),
		launcher:   player.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger),
	}, nil
}

// openApp loads the config at path and wires the app
func openApp(path string) (*app, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	return newApp(cfg)
}

func (a *app) Close() error {
	err := a.tokens.Close()
	if a.logCloser != nil {
		a.logCloser.Close()
	}
	return err
}

func (a *app) probe(ctx context.Context) (*api.ProbeResult, error) {
	return api.Probe(ctx, a.cfg.API.URL)
}

// runTUI starts the interactive browser, running setup first when needed
func runTUI(cmd *cobra.Command, configPath, openPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cmd.InOrStdin(), cmd.OutOrStdout(), cfg); err != nil {
			return err
		}
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting reel", "version", Version, "api", cfg.API.URL)

	model := tui.NewModel(tui.Deps{
		Session:    a.session,
		Categories: a.categories,
		Videos:     a.videos,
		Guard:      a.guard,
		Launcher:   a.launcher,
		Probe:      a.probe,
		MediaURL:   a.client.ResolveMediaURL,
		APIURL:     cfg.API.URL,
		Logger:     a.logger,
	}, openPath)

	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
