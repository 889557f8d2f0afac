package mqtt

import (
	"context"
	"log"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// IConsumer subscribes to a topic and feeds messages to a handler.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler func(topic string, message paho.Message) error)
}

type Consumer struct {
	client  paho.Client
	topic   string
	handler func(topic string, message paho.Message) error
}

func NewConsumer(client paho.Client, topic string, handler func(topic string, message paho.Message) error) *Consumer {
	return &Consumer{client: client, topic: topic, handler: handler}
}

func (c *Consumer) SetHandler(handler func(topic string, message paho.Message) error) {
	c.handler = handler
}

// qosFor: pump state changes must survive a flaky link (QoS1, deduped by the
// consumer); the status stream is a periodic sample and tolerates loss.
func qosFor(topic string) byte {
	if strings.HasPrefix(strings.TrimSpace(topic), "event/StateChange") {
		return 1
	}
	return 0
}

// ConsumeMessage subscribes and blocks until ctx is cancelled.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	token := c.client.Subscribe(c.topic, qosFor(c.topic), func(_ paho.Client, message paho.Message) {
		if c.handler == nil {
			log.Printf("mqtt: no handler for topic %s", c.topic)
			return
		}
		if err := c.handler(message.Topic(), message); err != nil {
			log.Printf("mqtt: handler error on %s: %v", message.Topic(), err)
		}
	})
	if token.Wait() && token.Error() != nil {
		log.Printf("mqtt: subscribe to %s failed: %v", c.topic, token.Error())
		return
	}
	log.Printf("mqtt: subscribed to %s", c.topic)

	<-ctx.Done()

	unsub := c.client.Unsubscribe(c.topic)
	unsub.Wait()
}
