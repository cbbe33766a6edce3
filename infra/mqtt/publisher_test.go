package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/evtol/core/events"
	coremon "github.com/kilianp07/evtol/core/monitoring"
	"github.com/kilianp07/evtol/internal/eventbus"
)

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// mockClient implements paho.Client for tests.
type mockClient struct {
	mu          sync.Mutex
	opts        *paho.ClientOptions
	published   []published
	publishErrs []error
	connectErr  error
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	if m.connectErr != nil {
		return &dummyToken{err: m.connectErr}
	}
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(m)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) {}
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b []byte
	switch p := payload.(type) {
	case []byte:
		b = p
	case string:
		b = []byte(p)
	}
	m.published = append(m.published, published{topic, qos, retained, b})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}
func (m *mockClient) Subscribe(string, byte, paho.MessageHandler) paho.Token { return &dummyToken{} }
func (m *mockClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return &dummyToken{}
}
func (m *mockClient) Unsubscribe(...string) paho.Token        { return &dummyToken{} }
func (m *mockClient) AddRoute(string, paho.MessageHandler)    {}
func (m *mockClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }
func (m *mockClient) IsConnectionOpen() bool                  { return true }

func (m *mockClient) messages() []published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]published(nil), m.published...)
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
}

type recordMonitor struct {
	mu   sync.Mutex
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.mu.Lock()
	r.err, r.tags = err, tags
	r.mu.Unlock()
}
func (r *recordMonitor) CapturePanic(any, map[string]string) {}
func (r *recordMonitor) Flush(time.Duration)                 {}

func TestPublisherAnnouncesOnline(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	pub, err := NewEventPublisher(Config{Broker: "tcp://localhost:1883", QoS: 1})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	msgs := mc.messages()
	if len(msgs) != 1 || msgs[0].topic != "evtol/status" || string(msgs[0].payload) != "online" || !msgs[0].retained {
		t.Fatalf("unexpected connect messages %+v", msgs)
	}
	pub.Close()
	msgs = mc.messages()
	if string(msgs[len(msgs)-1].payload) != "offline" {
		t.Fatalf("close should publish offline")
	}
}

func TestPublisherConnectError(t *testing.T) {
	withMockClient(t, &mockClient{connectErr: fmt.Errorf("refused")})
	if _, err := NewEventPublisher(Config{Broker: "tcp://localhost:1883"}); err == nil {
		t.Fatalf("expected connect error")
	}
}

func TestPublishEventTopicAndPayload(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	pub, err := NewEventPublisher(Config{Broker: "tcp://localhost:1883", TopicPrefix: "fleet", QoS: 2})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	ev := events.ChargeEvent{Kind: events.KindCharged, Ticket: 12, StationID: 2, AircraftID: "ALPHA01", Time: time.Unix(100, 0).UTC()}
	if err := pub.PublishEvent(ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	msgs := mc.messages()
	last := msgs[len(msgs)-1]
	if last.topic != "fleet/charging/charged" || last.qos != 2 || last.retained {
		t.Fatalf("unexpected message %+v", last)
	}
	var got events.ChargeEvent
	if err := json.Unmarshal(last.payload, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != ev.Kind || got.Ticket != 12 || got.StationID != 2 || got.AircraftID != "ALPHA01" || !got.Time.Equal(ev.Time) {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

func TestPublishEventRetries(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	pub, err := NewEventPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	mc.mu.Lock()
	mc.publishErrs = []error{fmt.Errorf("net fail"), nil}
	mc.mu.Unlock()
	before := len(mc.messages())
	if err := pub.PublishEvent(events.ChargeEvent{Kind: events.KindAdmitted}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if n := len(mc.messages()) - before; n != 2 {
		t.Fatalf("expected 2 attempts, got %d", n)
	}
}

func TestPublishErrorCaptured(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})
	pub, err := NewEventPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	mc.mu.Lock()
	mc.publishErrs = []error{fmt.Errorf("net fail"), fmt.Errorf("net fail")}
	mc.mu.Unlock()
	if err := pub.PublishEvent(events.ChargeEvent{Kind: events.KindCharged, Ticket: 5, AircraftID: "BRAVO02"}); err == nil {
		t.Fatalf("expected error")
	}
	mon.mu.Lock()
	defer mon.mu.Unlock()
	if mon.err == nil || mon.tags["aircraft_id"] != "BRAVO02" || mon.tags["module"] != "mqtt" || mon.tags["ticket"] != "5" {
		t.Fatalf("error not captured with tags: %+v", mon.tags)
	}
}

func TestForwardPublishesBusEvents(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	pub, err := NewEventPublisher(Config{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	bus := eventbus.New[events.ChargeEvent]()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pub.Forward(ctx, bus)
		close(done)
	}()
	// wait for the subscription before publishing
	deadline := time.Now().Add(time.Second)
	for {
		bus.Publish(events.ChargeEvent{Kind: events.KindAssigned, AircraftID: "X"})
		if len(mc.messages()) > 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("event not forwarded")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("forward did not stop on cancel")
	}
	bus.Close()
	if mc.messages()[1].topic != "evtol/charging/assigned" {
		t.Fatalf("unexpected topic %s", mc.messages()[1].topic)
	}
}
