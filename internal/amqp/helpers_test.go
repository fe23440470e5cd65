package amqp

import (
	"io"
	"log/slog"

	"finny/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError, Output: io.Discard})
}
