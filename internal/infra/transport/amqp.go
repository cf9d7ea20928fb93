package transport

import (
	"context"
	"encoding/json"
	"log/slog"

	"omiam-waitlist/internal/infra"
	"omiam-waitlist/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPTransport publishes each message to a durable queue per channel
// (<prefix>.email, <prefix>.sms, ...). Downstream workers do the actual sending.
type AMQPTransport struct {
	conn   *amqp.Connection
	prefix string
	logger *slog.Logger
}

func NewAMQPTransport(conn *amqp.Connection, prefix string, logger *slog.Logger) *AMQPTransport {
	return &AMQPTransport{conn: conn, prefix: prefix, logger: logger}
}

func (t *AMQPTransport) Name() string {
	return "amqp"
}

func (t *AMQPTransport) QueueName(msg shared.OutboundMessage) string {
	return t.prefix + "." + msg.Channel.String()
}

func (t *AMQPTransport) Deliver(ctx context.Context, msg shared.OutboundMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent use
	ch, err := t.conn.Channel()
	if err != nil {
		return infra.WrapRepoErr(t.logger, infra.KindBroker, "failed to open amqp channel", err)
	}
	defer func() { _ = ch.Close() }()

	queue := t.QueueName(msg)
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return infra.WrapRepoErr(t.logger, infra.KindBroker, "failed to declare queue "+queue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.RecordID.String(),
		Timestamp:    msg.CreatedAt.UTC(),
		Type:         msg.Category,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		return infra.WrapRepoErr(t.logger, infra.KindBroker, "failed to publish notification", err)
	}

	t.logger.Debug("notification published", "queue", queue, "record_id", msg.RecordID)
	return nil
}
