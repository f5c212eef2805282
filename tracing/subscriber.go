package tracing

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/konveyor/tasktracker/tracker"
)

// Subscriber records each tracker run as one span. Ticks become span events
// carrying the tick status and the running counters. A finished tracker ends
// its span with an Ok status, an aborted one with an Error status.
//
// One Subscriber may serve several trackers; spans are keyed by tracker ID.
type Subscriber struct {
	ctx    context.Context
	name   string
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[uuid.UUID]trace.Span
}

type SubscriberOption func(*Subscriber)

// WithTracerProvider uses tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) SubscriberOption {
	return func(s *Subscriber) {
		s.tracer = tp.Tracer(instrumentationName)
	}
}

// NewSubscriber creates a Subscriber whose spans are named name and are
// children of any span in ctx.
func NewSubscriber(ctx context.Context, name string, opts ...SubscriberOption) *Subscriber {
	s := &Subscriber{
		ctx:   ctx,
		name:  name,
		spans: map[uuid.UUID]trace.Span{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(instrumentationName)
	}
	return s
}

func (s *Subscriber) OnStart(tick *tracker.Tick) error {
	report := tick.Report()
	attrs := []attribute.KeyValue{
		attribute.String("tracker.id", report.TrackerID().String()),
		attribute.Int("tracker.total_items", report.TotalItemCount()),
	}
	if msg := tick.Message(); msg != "" {
		attrs = append(attrs, attribute.String("tracker.message", msg))
	}
	_, span := s.tracer.Start(s.ctx, s.name,
		trace.WithTimestamp(tick.Timestamp()),
		trace.WithAttributes(attrs...),
	)

	s.mu.Lock()
	s.spans[report.TrackerID()] = span
	s.mu.Unlock()
	return nil
}

func (s *Subscriber) OnTick(tick *tracker.Tick) error {
	span, ok := s.span(tick, false)
	if !ok {
		return nil
	}
	report := tick.Report()
	attrs := append([]attribute.KeyValue{
		attribute.String("tick.status", tick.Status().String()),
		attribute.String("tick.message", tick.Message()),
		attribute.Int("tick.increment_by", tick.IncrementBy()),
		attribute.Float64("tick.item_time_seconds", report.ItemTime().Seconds()),
	}, counters(report)...)
	span.AddEvent("tick", trace.WithTimestamp(tick.Timestamp()), trace.WithAttributes(attrs...))
	return nil
}

func (s *Subscriber) OnFinish(tick *tracker.Tick) error {
	s.end(tick, codes.Ok, tick.Message())
	return nil
}

func (s *Subscriber) OnAbort(tick *tracker.Tick) error {
	msg := tick.Message()
	if msg == "" {
		msg = "aborted"
	}
	s.end(tick, codes.Error, msg)
	return nil
}

func (s *Subscriber) end(tick *tracker.Tick, code codes.Code, description string) {
	span, ok := s.span(tick, true)
	if !ok {
		return
	}
	span.SetAttributes(counters(tick.Report())...)
	span.SetStatus(code, description)
	span.End(trace.WithTimestamp(tick.Timestamp()))
}

func (s *Subscriber) span(tick *tracker.Tick, remove bool) (trace.Span, bool) {
	id := tick.Report().TrackerID()
	s.mu.Lock()
	defer s.mu.Unlock()
	span, ok := s.spans[id]
	if ok && remove {
		delete(s.spans, id)
	}
	return span, ok
}

func counters(r *tracker.Report) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("tracker.processed", r.NumItemsProcessed()),
		attribute.Int("tracker.success", r.NumItemsSuccess()),
		attribute.Int("tracker.fail", r.NumItemsFail()),
		attribute.Int("tracker.skip", r.NumItemsSkip()),
	}
}
