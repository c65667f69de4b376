package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Zain0205/travelin-be/internal/presence"
	"github.com/Zain0205/travelin-be/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DeliveryConsumer drains the notification queue and hands events to online
// users. Offline users keep the persisted notification row and pick it up
// through the list endpoint.
type DeliveryConsumer struct {
	registry presence.Registry
}

func NewDeliveryConsumer(registry presence.Registry) *DeliveryConsumer {
	return &DeliveryConsumer{registry: registry}
}

func (dc *DeliveryConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			dc.handleMessage(msg)
		}
		log.Println("[DeliveryConsumer] channel closed, stopping consumer")
	}()
}

func (dc *DeliveryConsumer) handleMessage(msg amqp.Delivery) {
	var event service.NotificationEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("[DeliveryConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	ctx := context.Background()
	sessionID, err := dc.registry.SessionID(ctx, event.UserID)
	if err != nil {
		log.Printf("[DeliveryConsumer] presence lookup for user %d: %v", event.UserID, err)
		msg.Nack(false, true) // requeue
		return
	}

	if sessionID == "" {
		log.Printf("[DeliveryConsumer] user %d offline, notification %d kept for later", event.UserID, event.NotificationID)
	} else {
		log.Printf("[DeliveryConsumer] delivered %s to user %d (session %s)", msg.RoutingKey, event.UserID, sessionID)
	}
	msg.Ack(false)
}
