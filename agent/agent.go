// Package agent implements the scheduling pipeline as a set of cooperating
// agents: demand forecasting, staff matching, compliance validation, conflict
// resolution and the coordinator that sequences them. Agents communicate over
// the message bus, hold no state between executions and are safe to reuse
// across independent runs.
package agent

import (
	"github.com/hupe1980/shiftmesh/bus"
	"github.com/hupe1980/shiftmesh/logging"
)

// Topics used for bus traffic between the scheduling agents.
const (
	// TopicDemandTargets carries the forecasted demand target set.
	TopicDemandTargets = "demand.targets"
	// TopicScheduleDraft carries the matcher's initial schedule.
	TopicScheduleDraft = "schedule.draft"
	// TopicComplianceResult carries a freshly computed compliance result.
	TopicComplianceResult = "compliance.result"
	// TopicValidate is the request topic for synchronous re-validation.
	TopicValidate = "compliance.validate"
	// TopicPhase carries coordinator phase transition notifications.
	TopicPhase = "coordinator.phase"
)

// Agent is the capability contract every scheduling agent implements. Each
// concrete agent additionally exposes a typed Execute method; the interface
// stays narrow so the coordinator can treat agents uniformly for identity
// and messaging concerns.
type Agent interface {
	Name() string
	Description() string
}

// BaseAgent bundles identity, bus access and logging shared by every agent
// variant. Embed it and supply the typed Execute method.
type BaseAgent struct {
	name        string
	description string
	bus         *bus.Bus
	logger      logging.Logger
}

// NewBaseAgent constructs a BaseAgent. A nil bus or logger is replaced with
// a usable default so embedding agents never nil-check.
func NewBaseAgent(name, description string, b *bus.Bus, logger logging.Logger) BaseAgent {
	if b == nil {
		b = bus.New()
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return BaseAgent{name: name, description: description, bus: b, logger: logger}
}

// Name returns the agent's identifier on the bus.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a human-readable account of the agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// Bus returns the message bus the agent publishes on.
func (b *BaseAgent) Bus() *bus.Bus { return b.bus }

// Logger returns the agent's logger.
func (b *BaseAgent) Logger() logging.Logger { return b.logger }

// SendData publishes a DATA message to a downstream consumer.
func (b *BaseAgent) SendData(recipient, topic string, payload any) {
	b.bus.Publish(bus.NewDataMessage(b.name, recipient, topic, payload))
}

// NotifyStatus broadcasts a fire-and-forget status notification.
func (b *BaseAgent) NotifyStatus(topic string, payload any) {
	b.bus.Publish(bus.NewStatusMessage(b.name, topic, payload))
}
