// Package bus implements the synchronous message transport decoupling the
// scheduling agents. Delivery is in-order per sender/receiver pair, lossless
// within a run, and synchronous relative to the orchestration flow: Publish
// returns only after every matching handler has run. The API is mutex-guarded
// so concurrent callers remain correct even though a single scheduling run
// never requires it.
package bus

import (
	"fmt"
	"sync"

	"github.com/hupe1980/shiftmesh/logging"
)

// Handler consumes messages delivered to a subscriber. Handlers run on the
// publisher's goroutine; they must not block on external latency.
type Handler func(Message)

// RequestHandler answers synchronous REQUEST messages addressed to a
// subscriber. Returning an error fails the originating Request call.
type RequestHandler func(Message) (any, error)

// Bus routes messages between named subscribers. The zero value is not
// usable; construct with New.
type Bus struct {
	mu          sync.Mutex
	handlers    map[string][]Handler
	onRequest   map[string]RequestHandler
	log         []Message
	keepHistory bool
	logger      logging.Logger
}

// Options configures a Bus.
type Options struct {
	// KeepHistory retains every published message for post-run inspection.
	KeepHistory bool
	// Logger receives delivery diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// New creates an empty Bus.
func New(optFns ...func(o *Options)) *Bus {
	opts := Options{
		KeepHistory: true,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Bus{
		handlers:    map[string][]Handler{},
		onRequest:   map[string]RequestHandler{},
		keepHistory: opts.KeepHistory,
		logger:      opts.Logger,
	}
}

// Subscribe registers a handler for messages addressed to agentName or
// broadcast. Multiple handlers per name are invoked in registration order.
func (b *Bus) Subscribe(agentName string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[agentName] = append(b.handlers[agentName], h)
}

// SubscribeRequests registers the single request handler for agentName,
// replacing any previous one.
func (b *Bus) SubscribeRequests(agentName string, h RequestHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onRequest[agentName] = h
}

// Publish delivers msg to its recipient's handlers, or to every subscriber
// when the message is a broadcast. Delivery is synchronous: all handlers have
// returned before Publish does.
func (b *Bus) Publish(msg Message) {
	b.mu.Lock()
	if b.keepHistory {
		b.log = append(b.log, msg)
	}
	var targets []Handler
	if msg.IsBroadcast() {
		for name, hs := range b.handlers {
			if name == msg.Sender {
				continue
			}
			targets = append(targets, hs...)
		}
	} else {
		targets = append(targets, b.handlers[msg.Recipient]...)
	}
	b.mu.Unlock()

	b.logger.Debug("bus delivering message", "kind", string(msg.Kind), "topic", msg.Topic, "sender", msg.Sender, "recipient", msg.Recipient)
	for _, h := range targets {
		h(msg)
	}
}

// Request publishes a REQUEST to its recipient's request handler and returns
// the correlated RESPONSE. The response's CorrelationID always equals the
// request ID, so replies are routed back only to the original requester.
func (b *Bus) Request(req Message) (Message, error) {
	if req.Kind != KindRequest {
		return Message{}, fmt.Errorf("bus: message kind %s is not a request", req.Kind)
	}
	if req.Recipient == "" {
		return Message{}, fmt.Errorf("bus: request requires an addressed recipient")
	}

	b.mu.Lock()
	if b.keepHistory {
		b.log = append(b.log, req)
	}
	h, ok := b.onRequest[req.Recipient]
	b.mu.Unlock()

	if !ok {
		return Message{}, fmt.Errorf("bus: no request handler registered for %q", req.Recipient)
	}

	payload, err := h(req)
	if err != nil {
		return Message{}, fmt.Errorf("bus: request %s to %s failed: %w", req.Topic, req.Recipient, err)
	}

	resp := NewResponseMessage(req, req.Recipient, payload)
	b.mu.Lock()
	if b.keepHistory {
		b.log = append(b.log, resp)
	}
	b.mu.Unlock()
	return resp, nil
}

// History returns a copy of all messages published so far in this run.
func (b *Bus) History() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, len(b.log))
	copy(out, b.log)
	return out
}

// Reset clears the message history, typically between independent runs
// sharing a bus instance.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = nil
}
