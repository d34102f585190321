// Package session runs one image-chat conversation: it holds the uploaded
// image, the transcript, and the usage governor, and drives the
// estimate, admit, call, record pipeline for every question.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ineyio/askimage"
)

// Exchange is one completed question/answer pair.
type Exchange struct {
	ID       string
	Question string
	Answer   string
	Tokens   int64
	At       time.Time
}

// Session owns one Governor, one Provider, an optional image attachment,
// and the transcript. It is used by a single caller, one question at a
// time.
type Session struct {
	gov      *askimage.Governor
	provider askimage.Provider
	auth     askimage.Auth
	model    string
	meter    askimage.Meter
	now      func() time.Time

	attachment *Attachment
	transcript []Exchange
}

// Option configures a Session.
type Option func(*Session)

// WithAuth sets the provider credentials.
func WithAuth(auth askimage.Auth) Option {
	return func(s *Session) { s.auth = auth }
}

// WithModel sets the model. Defaults to askimage.DefaultModel.
func WithModel(model string) Option {
	return func(s *Session) { s.model = model }
}

// WithMeter sets the meter observing admit/record events.
func WithMeter(m askimage.Meter) Option {
	return func(s *Session) { s.meter = m }
}

// WithClock overrides the time source used for transcript timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a Session over the given governor and provider.
func New(gov *askimage.Governor, provider askimage.Provider, opts ...Option) *Session {
	s := &Session{
		gov:      gov,
		provider: provider,
		model:    askimage.DefaultModel,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.meter == nil {
		s.meter = noopMeter{}
	}
	return s
}

// Attach sets the image the following questions are about. Passing nil
// detaches the current image.
func (s *Session) Attach(a *Attachment) {
	s.attachment = a
}

// Attachment returns the currently attached image, or nil.
func (s *Session) Attachment() *Attachment {
	return s.attachment
}

// Transcript returns the completed exchanges in order.
func (s *Session) Transcript() []Exchange {
	return append([]Exchange(nil), s.transcript...)
}

// Governor returns the session's governor, for reporting and reset.
func (s *Session) Governor() *askimage.Governor {
	return s.gov
}

// Ask sends one question about the attached image.
//
// The pipeline is estimate, admit, call, record. An admission rejection is
// returned without calling the provider. When the provider call fails
// after admission, the pre-flight estimate is still recorded: an attempted
// request consumes quota regardless of outcome, so induced failures cannot
// be used to retry past the limits. On success the provider-reported total
// is recorded, falling back to the prompt estimate plus a rough estimate
// of the reply.
func (s *Session) Ask(ctx context.Context, question string) (Exchange, error) {
	id := uuid.New().String()
	msgs := s.buildMessages(question)
	estimated := askimage.EstimateMessages(msgs)

	if err := s.gov.Admit(estimated); err != nil {
		s.meter.OnAdmit(askimage.AdmitEvent{
			RequestID: id,
			Model:     s.model,
			Estimated: estimated,
			Admitted:  false,
			Reason:    askimage.Reason(err),
		})
		return Exchange{}, err
	}
	s.meter.OnAdmit(askimage.AdmitEvent{
		RequestID: id,
		Model:     s.model,
		Estimated: estimated,
		Admitted:  true,
	})

	resp, err := s.provider.ChatCompletion(ctx, askimage.ProviderRequest{
		Auth:     s.auth,
		Model:    s.model,
		Messages: msgs,
	})
	if err != nil {
		s.gov.Record(estimated)
		s.meter.OnRecord(askimage.RecordEvent{
			RequestID: id,
			Model:     s.model,
			Tokens:    estimated,
			Failed:    true,
			Report:    s.gov.Report(),
		})
		return Exchange{}, err
	}

	tokens := resp.Usage.TotalTokens
	if tokens == 0 {
		tokens = estimated + askimage.EstimateTokens(resp.Content)
	}
	s.gov.Record(tokens)
	s.meter.OnRecord(askimage.RecordEvent{
		RequestID: id,
		Model:     s.model,
		Tokens:    tokens,
		Report:    s.gov.Report(),
	})

	ex := Exchange{
		ID:       id,
		Question: question,
		Answer:   resp.Content,
		Tokens:   tokens,
		At:       s.now(),
	}
	s.transcript = append(s.transcript, ex)
	return ex, nil
}

// buildMessages builds the single user turn for a question. Each question
// is asked independently against the attached image; the transcript is for
// display only.
func (s *Session) buildMessages(question string) []askimage.Message {
	parts := []askimage.Part{askimage.TextPart(question)}
	if s.attachment != nil {
		parts = append(parts, askimage.ImagePart(s.attachment.DataURL()))
	}
	return []askimage.Message{{Role: "user", Parts: parts}}
}

// noopMeter is the default meter, inlined to avoid importing the meter
// subpackage.
type noopMeter struct{}

func (noopMeter) OnAdmit(askimage.AdmitEvent)   {}
func (noopMeter) OnRecord(askimage.RecordEvent) {}
