package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BradenHooton/loginlab/internal/attack"
)

const usage = "Usage: attack <passwords.txt> <base_url> <username> <output.csv>"

func main() {
	if len(os.Args) != 5 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := attack.Config{
		PasswordFile: os.Args[1],
		BaseURL:      os.Args[2],
		Username:     os.Args[3],
		OutputCSV:    os.Args[4],
		Delay:        attack.DefaultDelay,
		Timeout:      attack.DefaultTimeout,
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("attack run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg attack.Config, logger *slog.Logger) error {
	rec, err := attack.NewRecorder(cfg, logger)
	if err != nil {
		return err
	}
	rec.OnAttempt = func(a attack.Attempt) {
		fmt.Printf("[%d] %s -> HTTP %d (%.1f ms)\n", a.Number, a.Password, a.HTTPStatus,
			float64(a.Latency.Microseconds())/1000)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := rec.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	// Whatever was recorded before an interrupt is still written out
	f, err := os.Create(cfg.OutputCSV)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := attack.WriteCSV(f, result.Attempts); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	attack.WriteSummary(os.Stdout, attack.Summarize(result), cfg.OutputCSV)
	return nil
}
