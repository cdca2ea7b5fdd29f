package trace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"headlines/internal/loader"
)

const (
	defaultBufferSize  = 64
	defaultSendTimeout = 10 * time.Second
)

// Dispatcher logs every trace record and forwards it to the configured sinks
// from a single background worker. Sink failures never reach the caller.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	events chan Event
	done   chan struct{}
}

func NewDispatcher(sinks []Sink, bufferSize int, timeout time.Duration) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	d := &Dispatcher{
		sinks:   sinks,
		timeout: timeout,
		events:  make(chan Event, bufferSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Trace(ctx context.Context, rec loader.TraceRecord) {
	slog.DebugContext(ctx, "news api payload",
		"route", rec.Route,
		"query", rec.Query,
		"http_status", rec.HTTPStatus,
		"status", rec.APIStatus,
		"total_results", rec.TotalResults,
		"articles", rec.ArticleCount,
		"payload", string(rec.Payload),
	)

	if len(d.sinks) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	evt := NewEvent(rec)
	select {
	case d.events <- evt:
	default:
		slog.Warn("trace buffer full, dropping event", "route", rec.Route, "event_id", evt.ID)
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for evt := range d.events {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			err := s.Publish(ctx, evt)
			cancel()
			if err != nil {
				slog.Error("trace sink publish failed", "sink_id", s.ID(), "sink_type", s.Type(), "event_id", evt.ID, "error", err)
				continue
			}
			slog.Debug("trace sink delivered event", "sink_id", s.ID(), "event_id", evt.ID)
		}
	}
}

// Close drains queued events and closes every sink.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()

	<-d.done

	var errs []error
	for _, s := range d.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
