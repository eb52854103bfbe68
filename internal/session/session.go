// Package session runs dashboard query cycles: a date-range selection,
// retrieval of every matching transaction, the summary, and publication to a
// sink. Each cycle is tagged with a generation; only the latest generation
// may publish.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/salesboard-dev/salesboard/internal/daterange"
	"github.com/salesboard-dev/salesboard/internal/fetch"
	"github.com/salesboard-dev/salesboard/internal/logging"
	"github.com/salesboard-dev/salesboard/internal/model"
	"github.com/salesboard-dev/salesboard/internal/summary"
)

// ErrUnknownPreset is returned for a range name with no preset.
var ErrUnknownPreset = errors.New("unknown range")

// Fetcher retrieves the full transaction set for a query string.
type Fetcher interface {
	FetchAll(ctx context.Context, query string) ([]model.Transaction, error)
}

// Sink receives the published values of a cycle.
type Sink interface {
	UpdateContent(slot model.Slot, value decimal.Decimal)
	ShowError(err error)
}

// Query is one date-range selection ready to send.
type Query struct {
	Label string
	Range model.DateRange
	Args  string
}

// PresetQuery resolves the preset called name against now.
func PresetQuery(name string, now time.Time) (Query, error) {
	p, ok := daterange.Lookup(name)
	if !ok {
		return Query{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	r, args := p.Args(now)
	return Query{Label: p.Label, Range: r, Args: args}, nil
}

// CustomQuery validates user-entered dates and builds the range query.
func CustomQuery(startText, endText string, loc *time.Location) (Query, []daterange.ValidationError) {
	r, errs := daterange.ParseCustom(startText, endText, loc)
	if len(errs) > 0 {
		return Query{}, errs
	}
	return Query{
		Label: "Custom Range",
		Range: r,
		Args:  daterange.RangeQuery(r).Encode(),
	}, nil
}

// Kind classifies the outcome of a cycle.
type Kind int

const (
	KindSummary Kind = iota
	KindEmpty
	KindFailed
	KindStale
)

func (k Kind) String() string {
	switch k {
	case KindSummary:
		return "summary"
	case KindEmpty:
		return "empty"
	case KindFailed:
		return "failed"
	case KindStale:
		return "stale"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome describes a finished cycle. Summary is set for KindSummary, Err
// for KindFailed. A stale outcome was superseded and never reached the sink.
type Outcome struct {
	Generation uint64
	CycleID    string
	Query      Query
	Kind       Kind
	Summary    model.Summary
	Count      int
	Err        error
}

// Options configures a Session.
type Options struct {
	Policy summary.Policy
	Logger *logrus.Entry
	Now    func() time.Time
}

// Session owns the query cycles of one dashboard.
type Session struct {
	fetcher Fetcher
	sink    Sink
	policy  summary.Policy
	log     *logrus.Entry
	now     func() time.Time
	tracer  trace.Tracer

	generation atomic.Uint64

	mu     sync.Mutex // guards cancel, last and sink publication
	cancel context.CancelFunc
	last   *Query
}

// New creates a Session. A zero Policy means summary.DefaultPolicy.
func New(f Fetcher, sink Sink, opts Options) *Session {
	s := &Session{
		fetcher: f,
		sink:    sink,
		policy:  opts.Policy,
		log:     opts.Logger,
		now:     opts.Now,
		tracer:  otel.Tracer("salesboard/session"),
	}
	if s.policy.SellType == "" {
		s.policy = summary.DefaultPolicy()
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}

// Generation returns the latest generation started.
func (s *Session) Generation() uint64 {
	return s.generation.Load()
}

// Last returns the most recently started query.
func (s *Session) Last() (Query, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Query{}, false
	}
	return *s.last, true
}

// SelectPreset runs a cycle for the named preset.
func (s *Session) SelectPreset(ctx context.Context, name string) (Outcome, error) {
	q, err := PresetQuery(name, s.now())
	if err != nil {
		return Outcome{}, err
	}
	return s.Run(ctx, q), nil
}

// ApplyCustom runs a cycle for a custom range. Invalid input returns the
// validation errors and starts no cycle.
func (s *Session) ApplyCustom(ctx context.Context, startText, endText string) (Outcome, []daterange.ValidationError) {
	q, errs := CustomQuery(startText, endText, s.now().Location())
	if len(errs) > 0 {
		s.log.WithField("errors", daterange.Messages(errs)).Debug("custom range rejected")
		return Outcome{}, errs
	}
	return s.Run(ctx, q), nil
}

// Run starts a cycle for q and waits for it. Any cycle still in flight is
// canceled and can no longer publish.
func (s *Session) Run(ctx context.Context, q Query) Outcome {
	ctx, gen, cancel := s.begin(ctx, q)
	defer cancel()
	return s.cycle(ctx, gen, q)
}

// Start runs a cycle for q in the background. The channel receives exactly
// one outcome.
func (s *Session) Start(ctx context.Context, q Query) <-chan Outcome {
	ctx, gen, cancel := s.begin(ctx, q)
	out := make(chan Outcome, 1)
	go func() {
		defer cancel()
		out <- s.cycle(ctx, gen, q)
		close(out)
	}()
	return out
}

// Refresh starts the most recent query again.
func (s *Session) Refresh(ctx context.Context) (<-chan Outcome, bool) {
	q, ok := s.Last()
	if !ok {
		return nil, false
	}
	return s.Start(ctx, q), true
}

func (s *Session) begin(ctx context.Context, q Query) (context.Context, uint64, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.last = &q
	return ctx, s.generation.Add(1), cancel
}

func (s *Session) cycle(ctx context.Context, gen uint64, q Query) Outcome {
	out := Outcome{Generation: gen, CycleID: uuid.NewString(), Query: q}

	ctx, span := s.tracer.Start(ctx, "session.cycle", trace.WithAttributes(
		attribute.Int64("cycle.generation", int64(gen)),
		attribute.String("cycle.id", out.CycleID),
		attribute.String("cycle.query", q.Args),
	))
	defer span.End()

	log := s.log.WithFields(logrus.Fields{
		"generation": gen,
		"cycle_id":   out.CycleID,
		"range":      q.Label,
		"query":      q.Args,
	})
	log.Debug("query cycle started")

	txns, err := s.fetcher.FetchAll(fetch.WithRequestID(ctx, out.CycleID), q.Args)
	if err != nil {
		out.Kind, out.Err = KindFailed, err
	} else {
		res := summary.Evaluate(txns, s.policy)
		out.Count = res.Count
		if res.Empty {
			out.Kind = KindEmpty
		} else {
			out.Kind, out.Summary = KindSummary, res.Summary
		}
	}

	if !s.publish(out) {
		out.Kind = KindStale
		span.SetAttributes(attribute.Bool("cycle.stale", true))
		log.Debug("stale query cycle discarded")
		return out
	}

	span.SetAttributes(
		attribute.String("cycle.outcome", out.Kind.String()),
		attribute.Int("cycle.transactions", out.Count),
	)
	if out.Kind == KindFailed {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Err.Error())
		log.WithError(out.Err).Error("query cycle failed")
	} else {
		log.WithFields(logrus.Fields{
			"outcome":      out.Kind.String(),
			"transactions": out.Count,
		}).Info("query cycle complete")
	}
	return out
}

// publish hands the outcome to the sink if gen is still the latest.
func (s *Session) publish(out Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out.Generation != s.generation.Load() {
		return false
	}

	switch out.Kind {
	case KindFailed:
		// Clear the previous figures so they are not read as this range's.
		for _, slot := range model.Slots() {
			s.sink.UpdateContent(slot, decimal.Zero)
		}
		s.sink.ShowError(out.Err)
	case KindEmpty:
		for _, slot := range model.Slots() {
			s.sink.UpdateContent(slot, decimal.Zero)
		}
	default:
		for _, slot := range model.Slots() {
			s.sink.UpdateContent(slot, out.Summary.Value(slot))
		}
	}
	return true
}
