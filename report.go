package askimage

// Report is a read-only projection of UsageState for display: how close
// each metered quantity is to its cap, and how long until the minute
// window rolls.
type Report struct {
	MinuteRequests int
	DailyRequests  int
	MinuteTokens   int64
	DailyTokens    int64

	MinuteRequestsPct float64
	DailyRequestsPct  float64
	MinuteTokensPct   float64
	DailyTokensPct    float64

	// SecondsToMinuteReset is the time until the next minute boundary.
	SecondsToMinuteReset int
}

// Report computes the current usage report. It carries no mutation beyond
// the usual stale-window roll on access.
func (g *Governor) Report() Report {
	now := g.now()
	g.resetCounters(now)

	s, l := g.state, g.limits
	return Report{
		MinuteRequests: s.MinuteRequests,
		DailyRequests:  s.DailyRequests,
		MinuteTokens:   s.MinuteTokens,
		DailyTokens:    s.DailyTokens,

		MinuteRequestsPct: pct(int64(s.MinuteRequests), int64(l.RequestsPerMinute)),
		DailyRequestsPct:  pct(int64(s.DailyRequests), int64(l.RequestsPerDay)),
		MinuteTokensPct:   pct(s.MinuteTokens, l.TokensPerMinute),
		DailyTokensPct:    pct(s.DailyTokens, l.TokensPerDay),

		SecondsToMinuteReset: 60 - now.Second(),
	}
}

func pct(used, limit int64) float64 {
	if limit <= 0 {
		return 0
	}
	return float64(used) / float64(limit) * 100
}
