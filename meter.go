package askimage

// Meter observes session events for monitoring/logging.
type Meter interface {
	// OnAdmit is called after every admission decision.
	OnAdmit(event AdmitEvent)

	// OnRecord is called after usage is recorded for a request.
	OnRecord(event RecordEvent)
}

// AdmitEvent describes one admission decision.
type AdmitEvent struct {
	RequestID string
	Model     string
	Estimated int64
	Admitted  bool
	Reason    string // empty when admitted
}

// RecordEvent describes one recorded request.
type RecordEvent struct {
	RequestID string
	Model     string
	Tokens    int64
	Failed    bool // the provider call failed and the estimate was recorded
	Report    Report
}
