package events

import (
	"time"
)

// Event is a record of something that happened during a generation run
type Event interface {
	Type() string
	RunID() string
	Data() interface{}
	Timestamp() time.Time
	Sequence() int
}

// EventHandler reacts to recorded events
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore records run events and fans them out to subscribers
type EventStore interface {
	AppendEvent(runID string, event Event) error
	ReadEvents(runID string) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
}

type BaseEvent struct {
	EventType string
	Run       string
	EventData interface{}
	EventTime time.Time
	Seq       int
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) RunID() string {
	return e.Run
}

func (e BaseEvent) Data() interface{} {
	return e.EventData
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

func (e BaseEvent) Sequence() int {
	return e.Seq
}

func NewEvent(eventType, runID string, data interface{}) Event {
	return BaseEvent{
		EventType: eventType,
		Run:       runID,
		EventData: data,
		EventTime: time.Now(),
	}
}
