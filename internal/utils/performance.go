package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// OperationTimer provides a defer-friendly way to log operation duration.
// Operations slower than slowAfter are logged at warn level.
//
// Usage:
//
//	defer utils.OperationTimer("live_quotes", log, 5*time.Second)()
func OperationTimer(operation string, log zerolog.Logger, slowAfter time.Duration) func() {
	start := time.Now()

	return func() {
		duration := time.Since(start)

		if slowAfter > 0 && duration > slowAfter {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Msg("Slow operation detected")
			return
		}

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")
	}
}
