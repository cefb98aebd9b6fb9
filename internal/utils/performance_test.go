package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimer_LogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	OperationTimer("fast_op", log, time.Hour)()

	assert.Contains(t, buf.String(), "fast_op")
	assert.Contains(t, buf.String(), "Operation completed")
}

func TestOperationTimer_WarnsWhenSlow(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := OperationTimer("slow_op", log, time.Nanosecond)
	time.Sleep(time.Millisecond)
	done()

	assert.Contains(t, buf.String(), "Slow operation detected")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
