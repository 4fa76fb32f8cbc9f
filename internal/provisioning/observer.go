package provisioning

import (
	"github.com/charmbracelet/log"
)

// Observer receives structured events during provisioning.
type Observer interface {
	// Printf emits a free-form progress message.
	Printf(format string, v ...interface{})

	// Event emits a structured event.
	Event(event Event)
}

// Event represents a structured provisioning event.
type Event struct {
	Type     EventType
	Phase    string
	Resource string
	Message  string
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreated indicates a resource was created or updated.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource was already in the desired
	// state and was left alone.
	EventResourceExists EventType = "resource.exists"
)

// ConsoleObserver logs events to the terminal.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Infof(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	keyvals := []interface{}{"event", string(event.Type)}
	if event.Phase != "" {
		keyvals = append(keyvals, "phase", event.Phase)
	}
	if event.Resource != "" {
		keyvals = append(keyvals, "resource", event.Resource)
	}

	switch event.Type {
	case EventPhaseFailed:
		log.Error(event.Message, keyvals...)
	default:
		log.Info(event.Message, keyvals...)
	}
}

// MockObserver records events for tests.
type MockObserver struct {
	Messages []string
	Events   []Event
}

// NewMockObserver creates an empty MockObserver.
func NewMockObserver() *MockObserver {
	return &MockObserver{}
}

// Printf implements Observer.
func (o *MockObserver) Printf(format string, _ ...interface{}) {
	o.Messages = append(o.Messages, format)
}

// Event implements Observer.
func (o *MockObserver) Event(event Event) {
	o.Events = append(o.Events, event)
}

// EventsOfType returns recorded events matching the given type.
func (o *MockObserver) EventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range o.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
