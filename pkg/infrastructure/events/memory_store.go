package events

import (
	"sync"

	"go.uber.org/zap"
)

// InMemoryEventStore keeps run events in memory. Subscribers are notified
// synchronously, in append order.
type InMemoryEventStore struct {
	runs        map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	logger      *zap.Logger
}

func NewInMemoryEventStore(logger *zap.Logger) *InMemoryEventStore {
	return &InMemoryEventStore{
		runs:        make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		logger:      logger,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(runID string, event Event) error {
	s.mutex.Lock()
	sequenced := BaseEvent{
		EventType: event.Type(),
		Run:       runID,
		EventData: event.Data(),
		EventTime: event.Timestamp(),
		Seq:       len(s.runs[runID]) + 1,
	}
	s.runs[runID] = append(s.runs[runID], sequenced)
	handlers := append([]EventHandler(nil), s.subscribers[event.Type()]...)
	s.mutex.Unlock()

	for _, h := range handlers {
		if !h.CanHandle(sequenced.Type()) {
			continue
		}
		if err := h.Handle(sequenced); err != nil {
			s.logger.Warn("event handler failed",
				zap.String("event", sequenced.Type()),
				zap.String("run", runID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *InMemoryEventStore) ReadEvents(runID string) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.runs[runID]
	out := make([]Event, len(events))
	copy(out, events)
	return out, nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, t := range eventTypes {
		s.subscribers[t] = append(s.subscribers[t], handler)
	}
	return nil
}
