package askimage

import "time"

const (
	dayKeyLayout    = "2006-01-02"
	minuteKeyLayout = "2006-01-02 15:04"

	// historyCap bounds the per-session usage history.
	historyCap = 50
)

// Limits holds the admission caps for one session. They are fixed at
// construction and not runtime-mutable.
type Limits struct {
	RequestsPerMinute int   `yaml:"requests_per_minute"`
	RequestsPerDay    int   `yaml:"requests_per_day"`
	TokensPerMinute   int64 `yaml:"tokens_per_minute"`
	TokensPerDay      int64 `yaml:"tokens_per_day"`
	PerRequestTokens  int64 `yaml:"per_request_tokens"`
}

// DefaultLimits returns the free-tier caps of the Groq vision models.
func DefaultLimits() Limits {
	return Limits{
		RequestsPerMinute: 30,
		RequestsPerDay:    14400,
		TokensPerMinute:   30000,
		TokensPerDay:      500000,
		PerRequestTokens:  10000,
	}
}

// HistoryEntry records one completed request.
type HistoryEntry struct {
	At     time.Time
	Tokens int64
}

// UsageState holds the counters for one session. DayKey and MinuteKey
// identify the window the counters belong to; a stale key means the
// corresponding counters are zeroed on the next access.
type UsageState struct {
	DailyTokens   int64
	DailyRequests int
	DayKey        string

	MinuteTokens   int64
	MinuteRequests int
	MinuteKey      string

	History []HistoryEntry
}

// Governor admits or rejects chat requests against per-minute and per-day
// caps and accounts for consumption after each call. It is exclusively
// owned by a single session and accessed sequentially, one question at a
// time, so it takes no locks.
//
// Window rollover is lazy: every operation rolls stale windows on entry
// instead of relying on a background timer. Long idle gaps are invisible
// until the next access.
type Governor struct {
	limits Limits
	now    func() time.Time
	state  UsageState
}

// Option configures a Governor.
type Option func(*Governor)

// WithClock overrides the time source. Intended for tests; the default is
// time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Governor) { g.now = now }
}

// NewGovernor creates a Governor with zeroed counters and reset keys set
// to the current day and minute.
func NewGovernor(limits Limits, opts ...Option) *Governor {
	g := &Governor{limits: limits, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	g.reinit(g.now())
	return g
}

func (g *Governor) reinit(now time.Time) {
	g.state = UsageState{
		DayKey:    now.Format(dayKeyLayout),
		MinuteKey: now.Format(minuteKeyLayout),
	}
}

// Reset reinitializes the session counters to the zero state, bypassing
// normal window rollover. This backs the explicit operator reset command.
func (g *Governor) Reset() {
	g.reinit(g.now())
}

// resetCounters rolls stale windows. Each window's counters zero atomically
// with its key update; within the same minute and day it is a no-op.
func (g *Governor) resetCounters(now time.Time) {
	if day := now.Format(dayKeyLayout); day != g.state.DayKey {
		g.state.DailyTokens = 0
		g.state.DailyRequests = 0
		g.state.DayKey = day
	}
	if minute := now.Format(minuteKeyLayout); minute != g.state.MinuteKey {
		g.state.MinuteTokens = 0
		g.state.MinuteRequests = 0
		g.state.MinuteKey = minute
	}
}

// Admit decides whether a request with the given estimated token count may
// proceed. nil means admitted; a rejection is a *LimitError wrapping one of
// the admission sentinels. The check is advisory and pre-flight only: it
// gates whether the provider call is attempted, and a rejection is terminal
// for that attempt.
//
// Conditions are evaluated in fixed order and the first violation wins:
// per-minute requests, daily requests, per-minute tokens, daily tokens,
// per-request cap.
func (g *Governor) Admit(estimated int64) error {
	g.resetCounters(g.now())

	s, l := &g.state, g.limits
	switch {
	case s.MinuteRequests >= l.RequestsPerMinute:
		return &LimitError{Err: ErrMinuteRequestLimit, Estimated: estimated,
			Used: int64(s.MinuteRequests), Limit: int64(l.RequestsPerMinute)}
	case s.DailyRequests >= l.RequestsPerDay:
		return &LimitError{Err: ErrDailyRequestLimit, Estimated: estimated,
			Used: int64(s.DailyRequests), Limit: int64(l.RequestsPerDay)}
	case s.MinuteTokens+estimated > l.TokensPerMinute:
		return &LimitError{Err: ErrMinuteTokenLimit, Estimated: estimated,
			Used: s.MinuteTokens, Limit: l.TokensPerMinute}
	case s.DailyTokens+estimated > l.TokensPerDay:
		return &LimitError{Err: ErrDailyTokenLimit, Estimated: estimated,
			Used: s.DailyTokens, Limit: l.TokensPerDay}
	case estimated > l.PerRequestTokens:
		return &LimitError{Err: ErrPerRequestLimit, Estimated: estimated,
			Used: 0, Limit: l.PerRequestTokens}
	}
	return nil
}

// Record accounts for a completed request: tokens are added to both token
// counters, both request counters increment by one, and the request is
// appended to the bounded history. Record never re-checks limits —
// enforcement happens only in Admit, and an attempted request is counted
// regardless of its outcome.
func (g *Governor) Record(tokens int64) {
	now := g.now()
	g.resetCounters(now)

	g.state.DailyTokens += tokens
	g.state.MinuteTokens += tokens
	g.state.DailyRequests++
	g.state.MinuteRequests++

	g.state.History = append(g.state.History, HistoryEntry{At: now, Tokens: tokens})
	if n := len(g.state.History); n > historyCap {
		// Evict oldest in place.
		copy(g.state.History, g.state.History[n-historyCap:])
		g.state.History = g.state.History[:historyCap]
	}
}

// State returns a copy of the current counters after rolling stale windows.
func (g *Governor) State() UsageState {
	g.resetCounters(g.now())
	st := g.state
	st.History = append([]HistoryEntry(nil), g.state.History...)
	return st
}

// Limits returns the configured caps.
func (g *Governor) Limits() Limits {
	return g.limits
}
