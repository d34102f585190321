package meter

import (
	"log/slog"

	"github.com/ineyio/askimage"
)

// LogMeter logs session events using slog.
type LogMeter struct {
	Logger *slog.Logger
}

var _ askimage.Meter = (*LogMeter)(nil)

// NewLogMeter creates a LogMeter with the given logger.
// If logger is nil, slog.Default() is used.
func NewLogMeter(logger *slog.Logger) *LogMeter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMeter{Logger: logger}
}

func (m *LogMeter) OnAdmit(e askimage.AdmitEvent) {
	if e.Admitted {
		m.Logger.Info("admit",
			"request_id", e.RequestID,
			"model", e.Model,
			"estimated_tokens", e.Estimated,
		)
	} else {
		m.Logger.Warn("reject",
			"request_id", e.RequestID,
			"model", e.Model,
			"estimated_tokens", e.Estimated,
			"reason", e.Reason,
		)
	}
}

func (m *LogMeter) OnRecord(e askimage.RecordEvent) {
	m.Logger.Info("record",
		"request_id", e.RequestID,
		"model", e.Model,
		"tokens", e.Tokens,
		"failed", e.Failed,
		"minute_tokens_pct", e.Report.MinuteTokensPct,
		"daily_tokens_pct", e.Report.DailyTokensPct,
	)
}
