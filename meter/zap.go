package meter

import (
	"go.uber.org/zap"

	"github.com/ineyio/askimage"
)

// ZapMeter logs session events using zap.
type ZapMeter struct {
	Logger *zap.Logger
}

var _ askimage.Meter = (*ZapMeter)(nil)

// NewZapMeter creates a ZapMeter with the given logger.
// If logger is nil, zap.NewNop() is used.
func NewZapMeter(logger *zap.Logger) *ZapMeter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapMeter{Logger: logger}
}

func (m *ZapMeter) OnAdmit(e askimage.AdmitEvent) {
	if e.Admitted {
		m.Logger.Info("admit",
			zap.String("request_id", e.RequestID),
			zap.String("model", e.Model),
			zap.Int64("estimated_tokens", e.Estimated),
		)
		return
	}
	m.Logger.Warn("reject",
		zap.String("request_id", e.RequestID),
		zap.String("model", e.Model),
		zap.Int64("estimated_tokens", e.Estimated),
		zap.String("reason", e.Reason),
	)
}

func (m *ZapMeter) OnRecord(e askimage.RecordEvent) {
	m.Logger.Info("record",
		zap.String("request_id", e.RequestID),
		zap.String("model", e.Model),
		zap.Int64("tokens", e.Tokens),
		zap.Bool("failed", e.Failed),
		zap.Float64("minute_tokens_pct", e.Report.MinuteTokensPct),
		zap.Float64("daily_tokens_pct", e.Report.DailyTokensPct),
	)
}
