package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"

	"github.com/tatianab/onepage/internal/adventure"
	"github.com/tatianab/onepage/internal/builder"
	"github.com/tatianab/onepage/internal/config"
	"github.com/tatianab/onepage/internal/engine"
	"github.com/tatianab/onepage/internal/tui"
)

var (
	logFile     string
	logLevel    string
	turnTimeout time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Build a character and start an adventure",
	Long: `Open the terminal UI: roll and assign ability scores, choose an
archetype, buy equipment, then play a narrated adventure.`,
	RunE: runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (logs are discarded otherwise)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides LOG_LEVEL)")
	cmd.Flags().DurationVar(&turnTimeout, "turn-timeout", 0, "give up on a narrator call after this long (overrides TURN_TIMEOUT)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("turn-timeout") {
		cfg.TurnTimeout = turnTimeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(logFile, cfg.SlogLevel())
	if err != nil {
		return err
	}
	defer closeLog()

	narrator, portraits, closeNarrator, err := newNarrator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create narrator: %w", err)
	}
	defer closeNarrator()

	b, err := builder.New(&builder.Config{
		Roller:    dice.DefaultRoller,
		Portraits: portraits,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	session, err := adventure.New(&adventure.Config{
		Narrator:    narrator,
		Roller:      dice.DefaultRoller,
		Logger:      logger,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return err
	}

	logger.Info("starting", "provider", cfg.Provider, "session_id", session.ID())

	return tui.Run(tui.Options{
		Builder:     b,
		Session:     session,
		Roller:      dice.DefaultRoller,
		TurnTimeout: cfg.TurnTimeout,
		Logger:      logger,
	})
}

// newLogger writes text logs to path, or discards them when path is empty
// so nothing draws over the alt-screen UI.
func newLogger(path string, level slog.Level) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

// newNarrator picks the configured provider. Portraits are only available
// through Gemini; the renderer is nil otherwise.
func newNarrator(ctx context.Context, cfg *config.Config) (engine.Narrator, engine.PortraitRenderer, func(), error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		o, err := engine.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		if err != nil {
			return nil, nil, nil, err
		}
		return o, nil, func() {}, nil

	default:
		e, err := engine.NewEngine(ctx, cfg.GeminiAPIKey,
			engine.WithNarrationModel(cfg.GeminiModel),
			engine.WithPortraitModel(cfg.GeminiImageModel),
		)
		if err != nil {
			return nil, nil, nil, err
		}
		return e, e, e.Close, nil
	}
}
