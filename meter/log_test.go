package meter_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	ai "github.com/ineyio/askimage"
	"github.com/ineyio/askimage/meter"
)

func TestLogMeter(t *testing.T) {
	var buf bytes.Buffer
	m := meter.NewLogMeter(slog.New(slog.NewTextHandler(&buf, nil)))

	m.OnAdmit(ai.AdmitEvent{RequestID: "r1", Model: "test-model", Estimated: 42, Admitted: true})
	assert.Contains(t, buf.String(), "admit")
	assert.Contains(t, buf.String(), "estimated_tokens=42")

	buf.Reset()
	m.OnAdmit(ai.AdmitEvent{RequestID: "r2", Estimated: 42, Admitted: false,
		Reason: "daily token limit exceeded"})
	assert.Contains(t, buf.String(), "reject")
	assert.Contains(t, buf.String(), "daily token limit exceeded")

	buf.Reset()
	m.OnRecord(ai.RecordEvent{RequestID: "r1", Tokens: 120})
	assert.Contains(t, buf.String(), "record")
	assert.Contains(t, buf.String(), "tokens=120")
}

func TestNewLogMeter_NilLoggerDefaults(t *testing.T) {
	m := meter.NewLogMeter(nil)
	assert.NotNil(t, m.Logger)
}
