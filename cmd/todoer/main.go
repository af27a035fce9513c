package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todoer/internal/config"
	"github.com/sandeepkv93/todoer/internal/logging"
	"github.com/sandeepkv93/todoer/internal/organizer"
	"github.com/sandeepkv93/todoer/internal/scheduler"
	"github.com/sandeepkv93/todoer/internal/storage"
	"github.com/sandeepkv93/todoer/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todoer failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path, err := config.ResolvePath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}
	cfg = config.FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logOpts := logging.DefaultOptions()
	logOpts.Level = cfg.LogLevel
	logOpts.Path = cfg.LogPath
	logger, closer, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var repo storage.Repository
	sqlite, err := storage.OpenSQLite(cfg.Driver, cfg.DBPath)
	if err != nil {
		logger.Error("open database", "path", cfg.DBPath, "driver", cfg.Driver, "err", err)
	} else {
		defer sqlite.Close()
		repo = sqlite
	}
	adapter := storage.NewAdapter(ctx, repo, logger)

	org := organizer.New(organizer.Options{
		Persister:     adapter,
		Logger:        logger,
		DefaultSort:   cfg.SortMode(),
		DefaultFilter: cfg.FilterMode(),
	})
	loadErr := org.Load()

	engine, err := scheduler.NewEngine(cfg.SweepInterval())
	if err != nil {
		return err
	}
	engine.Start()
	defer engine.Stop()

	logger.Info("starting", "config", path, "db", cfg.DBPath, "storage", adapter.Available())
	ui := update.NewModel(update.Options{
		Organizer: org,
		Scheduler: engine,
		Keys:      cfg.Keys,
		Logger:    logger,
	})
	if loadErr != nil {
		ui.Status = update.StatusBar{Text: fmt.Sprintf("stored todos unavailable, changes are not saved: %v", loadErr), IsError: true}
	}
	program := tea.NewProgram(ui, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
