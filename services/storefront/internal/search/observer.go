package search

import (
	"log/slog"
	"time"

	apperrors "github.com/ArnoldEsquivel/palindrome-web/pkg/errors"
)

// EventType names a step in the life of a search.
type EventType string

const (
	EventDebounceFired    EventType = "debounce_fired"
	EventRequestStarted   EventType = "request_started"
	EventRequestSucceeded EventType = "request_succeeded"
	EventRequestFailed    EventType = "request_failed"
	EventRequestDiscarded EventType = "request_discarded"
	EventEmptyQuery       EventType = "empty_query"
	EventReset            EventType = "reset"
)

// Event describes one step. Seq identifies the request it belongs to and is
// zero for events outside a request.
type Event struct {
	Type    EventType
	Seq     uint64
	Query   string
	Kind    apperrors.Kind
	Err     error
	Elapsed time.Duration
}

// Observer receives orchestrator events. OnEvent is called synchronously
// while the orchestrator holds its lock and must not call back into it.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent implements Observer.
func (f ObserverFunc) OnEvent(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) OnEvent(Event) {}

// LogObserver writes events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs every event.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// OnEvent implements Observer.
func (o *LogObserver) OnEvent(e Event) {
	attrs := []any{
		slog.String("event", string(e.Type)),
		slog.String("query", e.Query),
	}
	if e.Seq != 0 {
		attrs = append(attrs, slog.Uint64("seq", e.Seq))
	}
	if e.Elapsed > 0 {
		attrs = append(attrs, slog.Duration("elapsed", e.Elapsed))
	}

	switch e.Type {
	case EventRequestFailed:
		attrs = append(attrs, slog.String("kind", string(e.Kind)), slog.Any("error", e.Err))
		o.logger.Warn("search failed", attrs...)
	case EventRequestSucceeded:
		o.logger.Info("search completed", attrs...)
	default:
		o.logger.Debug("search event", attrs...)
	}
}
