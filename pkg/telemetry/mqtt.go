// Package telemetry publishes per-cycle readings to an MQTT broker. It is
// optional: the daemon runs without it when no broker is configured.
package telemetry

import (
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Publisher sends JSON payloads to a single topic at QoS 0. A lost broker
// connection is not fatal; paho reconnects in the background and publishes
// in between are logged and dropped.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// Connect dials the broker and returns a Publisher for topic.
func Connect(broker, clientID, topic string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, pkgerrors.Wrapf(token.Error(), "failed to connect to mqtt broker %s", broker)
	}

	logrus.WithFields(logrus.Fields{
		"broker": broker,
		"topic":  topic,
	}).Info("connected to mqtt broker")

	return &Publisher{client: client, topic: topic}, nil
}

// Publish marshals payload and sends it. Failures are returned, not fatal.
func (p *Publisher) Publish(payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal telemetry payload")
	}

	token := p.client.Publish(p.topic, 0, false, b)
	if !token.WaitTimeout(publishTimeout) {
		return pkgerrors.New("mqtt publish timed out")
	}
	if token.Error() != nil {
		return pkgerrors.Wrap(token.Error(), "failed to publish telemetry")
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
