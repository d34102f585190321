package meter_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	ai "github.com/ineyio/askimage"
	"github.com/ineyio/askimage/meter"
)

func TestPromMeter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := meter.NewPromMeter(reg)

	m.OnAdmit(ai.AdmitEvent{RequestID: "r1", Estimated: 100, Admitted: true})
	m.OnAdmit(ai.AdmitEvent{RequestID: "r2", Estimated: 100, Admitted: false,
		Reason: "per-minute request limit exceeded"})
	m.OnRecord(ai.RecordEvent{RequestID: "r1", Tokens: 120, Report: ai.Report{
		MinuteTokensPct: 40,
		DailyTokensPct:  2,
	}})

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)

	count, err := testutil.GatherAndCount(reg,
		"askimage_requests_admitted_total",
		"askimage_requests_rejected_total",
		"askimage_tokens_recorded_total",
		"askimage_minute_tokens_pct")
	assert.NoError(t, err)
	assert.Equal(t, 4, count)
}
