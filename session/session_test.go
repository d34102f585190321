package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/ineyio/askimage"
	"github.com/ineyio/askimage/provider/mock"
	"github.com/ineyio/askimage/session"
)

// minimal PNG header, enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func newTestSession(provider ai.Provider, limits ai.Limits) (*session.Session, *ai.Governor) {
	at := time.Date(2025, 6, 15, 10, 30, 15, 0, time.UTC)
	gov := ai.NewGovernor(limits, ai.WithClock(func() time.Time { return at }))
	return session.New(gov, provider, session.WithModel("test-model")), gov
}

func TestAsk_RecordsProviderUsage(t *testing.T) {
	prov := mock.New(mock.WithUsage(ai.Usage{PromptTokens: 12, CompletionTokens: 8, TotalTokens: 20}))
	sess, gov := newTestSession(prov, ai.DefaultLimits())

	ex, err := sess.Ask(context.Background(), "What is shown here?")
	require.NoError(t, err)

	assert.Equal(t, "Hello from mock provider", ex.Answer)
	assert.Equal(t, int64(20), ex.Tokens)
	assert.NotEmpty(t, ex.ID)

	st := gov.State()
	assert.Equal(t, int64(20), st.DailyTokens)
	assert.Equal(t, 1, st.DailyRequests)
	require.Len(t, sess.Transcript(), 1)
	assert.Equal(t, "What is shown here?", sess.Transcript()[0].Question)
}

// A rejection must not reach the provider.
func TestAsk_RejectionSkipsProvider(t *testing.T) {
	prov := mock.New()
	sess, _ := newTestSession(prov, ai.Limits{
		RequestsPerMinute: 0, // everything rejected
		RequestsPerDay:    10,
		TokensPerMinute:   1000,
		TokensPerDay:      1000,
		PerRequestTokens:  1000,
	})

	_, err := sess.Ask(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, ai.IsLimit(err))
	assert.ErrorIs(t, err, ai.ErrMinuteRequestLimit)
	assert.Zero(t, prov.CallCount())
	assert.Empty(t, sess.Transcript())
}

// A failed provider call still consumes quota: the pre-flight estimate is
// recorded so induced failures cannot bypass the limits.
func TestAsk_FailureRecordsEstimate(t *testing.T) {
	prov := mock.New(mock.WithError(errors.New("upstream down")))
	sess, gov := newTestSession(prov, ai.DefaultLimits())

	question := "What is shown here?"
	estimated := ai.EstimateMessages([]ai.Message{ai.TextMessage("user", question)})

	_, err := sess.Ask(context.Background(), question)
	require.Error(t, err)
	assert.False(t, ai.IsLimit(err))

	st := gov.State()
	assert.Equal(t, 1, st.DailyRequests)
	assert.Equal(t, estimated, st.DailyTokens)
	assert.Empty(t, sess.Transcript())
}

// Without provider-reported usage, the recorded amount falls back to the
// prompt estimate plus an estimate of the reply.
func TestAsk_FallbackEstimateWhenNoUsage(t *testing.T) {
	prov := mock.New(mock.WithUsage(ai.Usage{}))
	sess, gov := newTestSession(prov, ai.DefaultLimits())

	question := "What is shown here?"
	estimated := ai.EstimateMessages([]ai.Message{ai.TextMessage("user", question)})
	reply := ai.EstimateTokens("Hello from mock provider")

	ex, err := sess.Ask(context.Background(), question)
	require.NoError(t, err)
	assert.Equal(t, estimated+reply, ex.Tokens)
	assert.Equal(t, estimated+reply, gov.State().DailyTokens)
}

func TestAsk_AttachmentIncludedInRequest(t *testing.T) {
	var got ai.ProviderRequest
	prov := mock.New(mock.WithResponseFunc(func(req ai.ProviderRequest) (ai.ProviderResponse, error) {
		got = req
		return ai.ProviderResponse{Content: "a cat", Usage: ai.Usage{TotalTokens: 5}}, nil
	}))
	sess, _ := newTestSession(prov, ai.DefaultLimits())

	att, err := session.NewAttachment("cat.png", pngBytes)
	require.NoError(t, err)
	sess.Attach(att)

	_, err = sess.Ask(context.Background(), "what animal is this?")
	require.NoError(t, err)

	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Parts, 2)
	assert.Equal(t, ai.PartText, got.Messages[0].Parts[0].Type)
	assert.Equal(t, "what animal is this?", got.Messages[0].Parts[0].Text)
	assert.Equal(t, ai.PartImage, got.Messages[0].Parts[1].Type)
	assert.Contains(t, got.Messages[0].Parts[1].ImageURL.URL, "data:image/png;base64,")
	assert.Equal(t, "test-model", got.Model)
}

// Each question is independent: only the current turn is sent.
func TestAsk_TranscriptNotSentUpstream(t *testing.T) {
	var lastLen int
	prov := mock.New(mock.WithResponseFunc(func(req ai.ProviderRequest) (ai.ProviderResponse, error) {
		lastLen = len(req.Messages)
		return ai.ProviderResponse{Content: "ok", Usage: ai.Usage{TotalTokens: 5}}, nil
	}))
	sess, _ := newTestSession(prov, ai.DefaultLimits())

	for i := 0; i < 3; i++ {
		_, err := sess.Ask(context.Background(), "again?")
		require.NoError(t, err)
		assert.Equal(t, 1, lastLen)
	}
	assert.Len(t, sess.Transcript(), 3)
}

type captureMeter struct {
	admits  []ai.AdmitEvent
	records []ai.RecordEvent
}

func (m *captureMeter) OnAdmit(e ai.AdmitEvent)   { m.admits = append(m.admits, e) }
func (m *captureMeter) OnRecord(e ai.RecordEvent) { m.records = append(m.records, e) }

func TestAsk_MeterSeesDecisions(t *testing.T) {
	cm := &captureMeter{}
	at := time.Date(2025, 6, 15, 10, 30, 15, 0, time.UTC)
	gov := ai.NewGovernor(ai.Limits{
		RequestsPerMinute: 1,
		RequestsPerDay:    10,
		TokensPerMinute:   1000,
		TokensPerDay:      1000,
		PerRequestTokens:  1000,
	}, ai.WithClock(func() time.Time { return at }))
	sess := session.New(gov, mock.New(), session.WithMeter(cm))

	_, err := sess.Ask(context.Background(), "first")
	require.NoError(t, err)
	_, err = sess.Ask(context.Background(), "second")
	require.Error(t, err)

	require.Len(t, cm.admits, 2)
	assert.True(t, cm.admits[0].Admitted)
	assert.False(t, cm.admits[1].Admitted)
	assert.Equal(t, "per-minute request limit exceeded", cm.admits[1].Reason)

	require.Len(t, cm.records, 1)
	assert.Equal(t, int64(30), cm.records[0].Tokens)
	assert.False(t, cm.records[0].Failed)
	assert.Equal(t, cm.admits[0].RequestID, cm.records[0].RequestID)
}
