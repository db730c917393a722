package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithRun returns a logger with generation run context fields attached.
// Use this for all logging within a generation run.
func WithRun(runID string, seed int64) *slog.Logger {
	return slog.With(
		"run_id", runID,
		"seed", seed,
	)
}

// WithStage returns a logger scoped to a single pipeline stage within a run.
func WithStage(logger *slog.Logger, stage string) *slog.Logger {
	return logger.With("stage", stage)
}

// WithComponent returns a logger tagged with a subsystem name for code that
// runs outside a generation run, like the content provider.
func WithComponent(name string) *slog.Logger {
	return slog.With("component", name)
}
