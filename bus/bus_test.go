package bus

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInOrder(t *testing.T) {
	b := New()

	var got []string
	b.Subscribe("matcher", func(m Message) {
		got = append(got, m.Topic)
	})

	b.Publish(NewDataMessage("forecaster", "matcher", "first", nil))
	b.Publish(NewDataMessage("forecaster", "matcher", "second", nil))
	b.Publish(NewDataMessage("forecaster", "matcher", "third", nil))

	require.Equal(t, []string{"first", "second", "third"}, got)
}

func TestPublishBroadcastSkipsSender(t *testing.T) {
	b := New()

	counts := map[string]int{}
	for _, name := range []string{"a", "b", "c"} {
		name := name
		b.Subscribe(name, func(Message) { counts[name]++ })
	}

	b.Publish(NewStatusMessage("a", "phase", "matching"))

	assert.Equal(t, 0, counts["a"])
	assert.Equal(t, 1, counts["b"])
	assert.Equal(t, 1, counts["c"])
}

func TestPublishAddressedIgnoresOthers(t *testing.T) {
	b := New()

	delivered := 0
	b.Subscribe("validator", func(Message) { delivered++ })
	b.Subscribe("resolver", func(Message) { t.Fatal("resolver should not receive addressed message") })

	b.Publish(NewDataMessage("matcher", "validator", "schedule.draft", nil))
	require.Equal(t, 1, delivered)
}

func TestRequestResponseCorrelation(t *testing.T) {
	b := New()

	b.SubscribeRequests("validator", func(m Message) (any, error) {
		return fmt.Sprintf("validated:%v", m.Payload), nil
	})

	req := NewRequestMessage("resolver", "validator", "compliance.validate", 42)
	resp, err := b.Request(req)
	require.NoError(t, err)

	assert.Equal(t, KindResponse, resp.Kind)
	assert.Equal(t, req.ID, resp.CorrelationID)
	assert.Equal(t, "resolver", resp.Recipient)
	assert.Equal(t, "validator", resp.Sender)
	assert.Equal(t, "validated:42", resp.Payload)
}

func TestRequestErrors(t *testing.T) {
	b := New()

	_, err := b.Request(NewDataMessage("a", "b", "x", nil))
	require.Error(t, err, "non-request kind must be rejected")

	_, err = b.Request(NewRequestMessage("a", "nobody", "x", nil))
	require.Error(t, err, "missing handler must be rejected")

	b.SubscribeRequests("b", func(Message) (any, error) { return nil, fmt.Errorf("boom") })
	_, err = b.Request(NewRequestMessage("a", "b", "x", nil))
	require.ErrorContains(t, err, "boom")
}

func TestHistoryAndReset(t *testing.T) {
	b := New()
	b.Subscribe("x", func(Message) {})

	b.Publish(NewDataMessage("a", "x", "one", nil))
	b.SubscribeRequests("x", func(Message) (any, error) { return "ok", nil })
	_, err := b.Request(NewRequestMessage("a", "x", "two", nil))
	require.NoError(t, err)

	// publish + request + response
	require.Len(t, b.History(), 3)

	b.Reset()
	assert.Empty(t, b.History())
}
