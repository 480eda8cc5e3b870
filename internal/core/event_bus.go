package core

import (
	"net/http"
	"sync"

	"github.com/timada-org/todos/internal/sse"
)

type Event struct {
	Topic *TopicName `json:"topic"`
	Name  string     `json:"name"`
	Data  any        `json:"data"`
}

const (
	EventCreated = "Created"
	EventUpdated = "Updated"
	EventDeleted = "Deleted"
)

// DefaultFilter is used by sessions that do not ask for a filter.
const DefaultFilter = "#"

type EventBusOptions struct {
	Server *sse.Server
}

// EventBus fans published events out to the SSE sessions whose filters match.
type EventBus struct {
	mux           sync.RWMutex
	subscriptions map[string]*Subscription
}

func NewEventBus(options *EventBusOptions) *EventBus {
	bus := &EventBus{
		subscriptions: make(map[string]*Subscription),
	}

	if options == nil || options.Server == nil {
		return bus
	}

	options.Server.NewSessionHandler = func(id string, session *sse.Session, r *http.Request) error {
		value := r.URL.Query().Get("filter")
		if value == "" {
			value = DefaultFilter
		}

		filter, err := NewFilter(value)
		if err != nil {
			return err
		}

		bus.Subscribe(id, session, filter)

		return nil
	}

	options.Server.CloseSessionHandler = func(id string, session *sse.Session) {
		bus.mux.Lock()
		defer bus.mux.Unlock()

		delete(bus.subscriptions, id)
	}

	return bus
}

func (bus *EventBus) Publish(event *Event) {
	bus.mux.RLock()
	defer bus.mux.RUnlock()

	for _, subscription := range bus.subscriptions {
		subscription.send(event)
	}
}

func (bus *EventBus) Subscribe(sessionID string, session Sender, filter *TopicFilter) {
	bus.mux.Lock()
	defer bus.mux.Unlock()

	subscription, ok := bus.subscriptions[sessionID]
	if !ok {
		subscription = &Subscription{
			session: session,
			filters: make(map[string]*TopicFilter),
		}
		bus.subscriptions[sessionID] = subscription
	}

	subscription.add(filter)
}

func (bus *EventBus) Unsubscribe(sessionID string, filter *TopicFilter) {
	bus.mux.RLock()
	defer bus.mux.RUnlock()

	if subscription, ok := bus.subscriptions[sessionID]; ok {
		subscription.remove(filter)
	}
}

// Sender is implemented by *sse.Session.
type Sender interface {
	Send(e *sse.Event) bool
}

type Subscription struct {
	mux     sync.RWMutex
	filters map[string]*TopicFilter
	session Sender
}

func (s *Subscription) add(filter *TopicFilter) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.filters[filter.Value] = filter
}

func (s *Subscription) remove(filter *TopicFilter) {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.filters, filter.Value)
}

// send delivers event at most once, however many filters match it.
func (s *Subscription) send(event *Event) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	for _, filter := range s.filters {
		if filter.Match(event.Topic) {
			s.session.Send(&sse.Event{
				Topic: event.Topic.Value,
				Name:  event.Name,
				Data:  event.Data,
			})
			return
		}
	}
}
