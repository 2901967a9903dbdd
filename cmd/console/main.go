package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/science-santa/internal/config"
	"github.com/jwebster45206/science-santa/internal/game"
	"github.com/jwebster45206/science-santa/internal/logger"
	"github.com/jwebster45206/science-santa/internal/services"
	"github.com/jwebster45206/science-santa/pkg/textfilter"
)

const warmupTimeout = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logger.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logFile.Close() }()
	log := logger.Setup(cfg, logFile)

	llm, err := services.NewLLMService(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create LLM service: %v\n", err)
		os.Exit(1)
	}

	if initializer, ok := llm.(services.ModelInitializer); ok {
		fmt.Printf("Warming up %s model %s...\n", llm.Name(), cfg.ModelName)
		ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
		err := initializer.InitModel(ctx)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize model: %v\n", err)
			os.Exit(1)
		}
	}

	log.Info("Starting Science Santa",
		"provider", llm.Name(),
		"model", cfg.ModelName,
		"history_limit", cfg.HistoryLimit,
		"family_filter", cfg.FamilyFilter)

	p := tea.NewProgram(newApp(cfg, llm, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the controller and the UI around a shared screen.
func newApp(cfg *config.Config, llm services.LLMService, log *slog.Logger) ConsoleUI {
	settings := game.Settings{HistoryLimit: cfg.HistoryLimit}
	if cfg.FamilyFilter {
		settings.Filter = textfilter.NewFamilyFilter()
	}

	scr := &screen{}
	ctrl := game.NewController(llm, scr, log, settings)
	return NewConsoleUI(ctrl, scr, log)
}
