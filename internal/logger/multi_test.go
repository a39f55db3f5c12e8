package logger

import (
	"bytes"
	"testing"

	"github.com/koba789/unrotate/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMultiLoggerFansOut(t *testing.T) {
	a, b := &bytes.Buffer{}, &bytes.Buffer{}
	ml := NewMultiLogger(NewConsoleLogger(a, "debug"), nil, NewConsoleLogger(b, "warn"))

	ml.LogDebug("debug line")
	ml.LogInfo("info line")
	ml.LogWarn("warn line")
	ml.LogError("error line")
	ml.LogStepComplete(models.StepResult{Linked: 2, Candidates: 2})

	assert.Contains(t, a.String(), "debug line")
	assert.Contains(t, a.String(), "info line")
	assert.Contains(t, a.String(), "2 linked")

	assert.NotContains(t, b.String(), "info line")
	assert.Contains(t, b.String(), "warn line")
	assert.Contains(t, b.String(), "error line")
}

func TestMultiLoggerImplementsLogger(t *testing.T) {
	var _ Logger = NewMultiLogger()
	var _ Logger = NewConsoleLogger(nil, "info")
	var _ Logger = NewNoOpLogger()
	var _ Logger = &FileLogger{}
}
