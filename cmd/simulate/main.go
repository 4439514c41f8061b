package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/combatcore/internal/config"
	"github.com/udisondev/combatcore/internal/stats"
)

const ConfigPath = "config/engine.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("COMBATCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadEngine(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("simulation starting",
		"config", cfgPath,
		"characters", len(cfg.Scenario.Characters),
		"events", len(cfg.Scenario.Events),
		"duration", cfg.Scenario.Duration,
		"tick", cfg.TickInterval,
		"invariants", cfg.Policy())

	results, err := simulate(ctx, cfg)
	if err != nil {
		return err
	}

	for _, r := range results {
		slog.Info("final stats",
			"character", r.Name,
			"id", r.ID,
			"dead", r.Dead,
			"health", r.Stats[stats.Health],
			"max_health", r.Stats[stats.MaxHealth],
			"damage", r.Stats[stats.Damage],
			"move_speed", r.Stats[stats.MovementSpeed],
			"defense", r.Stats[stats.Defense],
			"critical_rate", r.Stats[stats.CriticalRate],
			"attack_speed", r.Stats[stats.AttackSpeed])
	}
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
