package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, false)
	log.Debug("hidden")
	log.Info("visible", zap.Int("sites", 3))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, `{"sites": 3}`)
}

func TestNewDebugColor(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, true)
	log.Debug("shown")

	out := buf.String()
	assert.Contains(t, out, "\033[36mDEBUG\033[0m")
	assert.Contains(t, out, "shown")
}
