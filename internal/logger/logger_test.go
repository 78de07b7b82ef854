package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithComponentTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	orig := Logger
	Logger = zerolog.New(&buf)
	defer func() { Logger = orig }()

	WithComponent("capture").Warn().Str("request", "r1").Msg("queue full")

	out := buf.String()
	assert.Contains(t, out, `"component":"capture"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"request":"r1"`)
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("Debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
}
