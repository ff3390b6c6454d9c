package bus

import (
	"time"

	"github.com/google/uuid"
)

// Kind categorizes a message. The set is closed: agents dispatch on Kind
// plus topic rather than inspecting payload types reflectively.
type Kind string

const (
	// KindData carries a typed payload from one agent to a downstream consumer.
	KindData Kind = "DATA"
	// KindRequest asks the recipient for a synchronous response. The reply is
	// routed back to the requester via CorrelationID.
	KindRequest Kind = "REQUEST"
	// KindResponse answers a previously published request.
	KindResponse Kind = "RESPONSE"
	// KindStatus is a fire-and-forget progress notification.
	KindStatus Kind = "STATUS"
)

// Message is the unit of communication between agents. After publication it
// should be treated as immutable. Recipient may be empty for broadcast. The
// Payload is one of a closed set of scheduling types (demand target sets,
// schedules, compliance results); consumers type-assert on Topic.
type Message struct {
	ID            string
	CorrelationID string
	Kind          Kind
	Sender        string
	Recipient     string
	Topic         string
	Payload       any
	Timestamp     time.Time
}

// NewMessage creates a bare message from sender to recipient.
// Prefer the kind-specific constructors for common categories.
func NewMessage(kind Kind, sender, recipient, topic string, payload any) Message {
	return Message{
		ID:        NewID(),
		Kind:      kind,
		Sender:    sender,
		Recipient: recipient,
		Topic:     topic,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// NewDataMessage constructs a DATA message carrying a result payload.
func NewDataMessage(sender, recipient, topic string, payload any) Message {
	return NewMessage(KindData, sender, recipient, topic, payload)
}

// NewRequestMessage constructs a REQUEST message. Its ID doubles as the
// correlation token the responder must echo back.
func NewRequestMessage(sender, recipient, topic string, payload any) Message {
	return NewMessage(KindRequest, sender, recipient, topic, payload)
}

// NewResponseMessage constructs the RESPONSE to a previously received request,
// echoing the request's ID as CorrelationID so the bus can route it back.
func NewResponseMessage(req Message, sender string, payload any) Message {
	m := NewMessage(KindResponse, sender, req.Sender, req.Topic, payload)
	m.CorrelationID = req.ID
	return m
}

// NewStatusMessage constructs a broadcast STATUS notification.
func NewStatusMessage(sender, topic string, payload any) Message {
	return NewMessage(KindStatus, sender, "", topic, payload)
}

// NewID generates a new unique identifier for messages.
func NewID() string { return uuid.NewString() }

// IsBroadcast reports whether the message has no addressed recipient.
func (m Message) IsBroadcast() bool { return m.Recipient == "" }
