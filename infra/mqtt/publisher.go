package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/evtol/core/events"
	coremon "github.com/kilianp07/evtol/core/monitoring"
	"github.com/kilianp07/evtol/infra/logger"
	"github.com/kilianp07/evtol/internal/eventbus"
)

// EventPublisher forwards charging lifecycle events to an MQTT broker.
// Events go to <prefix>/charging/<kind>; the payload is the JSON event.
type EventPublisher struct {
	cli    pahoClient
	cfg    Config
	logger logger.Logger
}

// NewEventPublisher connects to the broker and announces the publisher
// online on the status topic.
func NewEventPublisher(cfg Config) (*EventPublisher, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	p := &EventPublisher{cfg: cfg, logger: log}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
		c.Publish(cfg.StatusTopic(), cfg.QoS, true, "online")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	p.cli = c
	return p, nil
}

// Topic returns the topic an event of kind is published on.
func (p *EventPublisher) Topic(kind events.Kind) string {
	return p.cfg.TopicPrefix + "/charging/" + string(kind)
}

// PublishEvent sends ev, retrying with exponential backoff. The final
// failure is reported to the monitor.
func (p *EventPublisher) PublishEvent(ev events.ChargeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	topic := p.Topic(ev.Kind)
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.backoff()
	b.RandomizationFactor = 0
	b.Multiplier = 2

	attempt := 0
	_, err = backoff.Retry(context.Background(), func() (struct{}, error) {
		attempt++
		token := p.cli.Publish(topic, p.cfg.QoS, false, payload)
		token.Wait()
		return struct{}{}, token.Error()
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.cfg.MaxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			p.logger.Warnf("publish attempt %d failed: %v, retrying in %s", attempt, err, next)
		}),
	)
	if err == nil {
		p.logger.Debugf("published %s for ticket %d", topic, ev.Ticket)
		return nil
	}
	coremon.CaptureException(err, map[string]string{
		"module":      "mqtt",
		"aircraft_id": ev.AircraftID,
		"ticket":      strconv.FormatUint(ev.Ticket, 10),
	})
	return err
}

// Forward publishes every event from bus until ctx is cancelled or the bus
// is closed. It blocks.
func (p *EventPublisher) Forward(ctx context.Context, bus *eventbus.Bus[events.ChargeEvent]) {
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			if err := p.PublishEvent(ev); err != nil {
				p.logger.Errorf("dropping %s event for %s: %v", ev.Kind, ev.AircraftID, err)
			}
		}
	}
}

// Close marks the publisher offline and disconnects.
func (p *EventPublisher) Close() {
	if p.cli == nil || !p.cli.IsConnected() {
		return
	}
	p.cli.Publish(p.cfg.StatusTopic(), p.cfg.QoS, true, "offline").WaitTimeout(time.Second)
	p.cli.Disconnect(250)
}
