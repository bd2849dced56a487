package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// AppID проставляется в свойство app_id каждого исходящего сообщения.
const AppID = "bozo-web"

const contentTypeJSON = "application/json"

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishJSON кодирует payload в JSON и публикует его в exchange с ключом routingKey.
// Сообщение помечается как постоянное и получает уникальный message_id и
// время отправки, чтобы потребители могли отбрасывать повторы.
func PublishJSON(ch Channel, exchange, routingKey string, payload any) error {
	const op = "rabbitmq.PublishJSON"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode %q: %w", op, routingKey, err)
	}

	msg := amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		AppId:        AppID,
		Body:         body,
	}
	if err := ch.Publish(exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("%s: publish %q: %w", op, routingKey, err)
	}
	return nil
}
