package meter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	ai "github.com/ineyio/askimage"
	"github.com/ineyio/askimage/meter"
)

func TestZapMeter(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := meter.NewZapMeter(zap.New(core))

	m.OnAdmit(ai.AdmitEvent{RequestID: "r1", Estimated: 42, Admitted: true})
	m.OnAdmit(ai.AdmitEvent{RequestID: "r2", Estimated: 42, Admitted: false,
		Reason: "per-minute token limit exceeded"})
	m.OnRecord(ai.RecordEvent{RequestID: "r1", Tokens: 120})

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "admit", entries[0].Message)
	assert.Equal(t, "reject", entries[1].Message)
	assert.Equal(t, "per-minute token limit exceeded", entries[1].ContextMap()["reason"])
	assert.Equal(t, "record", entries[2].Message)
	assert.Equal(t, int64(120), entries[2].ContextMap()["tokens"])
}

func TestNewZapMeter_NilLoggerDefaults(t *testing.T) {
	m := meter.NewZapMeter(nil)
	assert.NotNil(t, m.Logger)
}
