// Package obs contains observability utilities such as logging.
package obs

import (
	"log/slog"
	"os"
)

// Logger is the global structured logger used by the service.
//
// Logger is exported so every package logs through the same handler.
var Logger *slog.Logger

// InitLogger initializes the global Logger with a JSON handler at info level.
func InitLogger() {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	Logger = slog.New(h)
}
