package meter

import "github.com/ineyio/askimage"

// NoopMeter is a meter that does nothing.
type NoopMeter struct{}

var _ askimage.Meter = (*NoopMeter)(nil)

func (m *NoopMeter) OnAdmit(askimage.AdmitEvent)   {}
func (m *NoopMeter) OnRecord(askimage.RecordEvent) {}
