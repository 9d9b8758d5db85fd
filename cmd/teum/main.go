package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"teum/internal/logging"
	"teum/internal/notify"
	"teum/internal/planner"
	"teum/internal/storage"
	"teum/internal/tasks"
	"teum/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "teum failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log := logging.New("teum")
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())
	ctx := context.Background()

	store, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := storage.MigrateUp(store.DB()); err != nil {
		return err
	}
	if err := store.Initialize(ctx); err != nil {
		return err
	}

	bus := notify.NewBus()
	repo := tasks.NewRepository(store, bus)
	sweeper := tasks.NewSweeper(store, log)

	var rnd *rand.Rand
	if cfg.RandSeed != 0 {
		rnd = rand.New(rand.NewSource(cfg.RandSeed))
	}
	engine := planner.NewEngine(repo, rnd)
	if err := engine.SetDayWindow(cfg.DayStart, cfg.DayEnd); err != nil {
		return err
	}

	log.WithField("db", cfg.DBPath).Info("planner starting")
	program := tea.NewProgram(update.NewModel(repo, engine, sweeper, bus))
	_, err = program.Run()
	return err
}
