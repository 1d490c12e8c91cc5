package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/ashborne/internal/config"
	"github.com/jwebster45206/ashborne/pkg/game"
	"github.com/jwebster45206/ashborne/pkg/world"
)

const debugLogFile = "ashborne-console.log"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	w, err := loadWorld(cfg.WorldFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load world: %v\n", err)
		os.Exit(1)
	}

	// The UI owns stdout, so logs only go to a file when debugging.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.LogLevel == slog.LevelDebug {
		f, err := tea.LogToFile(debugLogFile, "ashborne")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithMaxHealth(cfg.MaxHealth),
	}
	if cfg.RNGSeed != 0 {
		opts = append(opts, game.WithRand(rand.New(rand.NewSource(cfg.RNGSeed))))
	}

	g, err := game.New(w, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create game: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		NewConsoleUI(g, w.Narrator.Name),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func loadWorld(path string) (*world.World, error) {
	if path == "" {
		return world.Default()
	}
	return world.LoadFile(path)
}
