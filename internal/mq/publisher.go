package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Skymixer/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeJobReady     MessageType = "job.ready"
	MessageTypeJobCompleted MessageType = "job.completed"
)

// Message — конверт сообщения.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// JobReadyPayload — payload о job unit, готовом к выполнению.
//
// Воркеру достаточно рабочей директории: скрипты и конфигурация
// уже лежат в ней после setup.
type JobReadyPayload struct {
	Run   string            `json:"run"`
	Tile  string            `json:"tile"`
	Chunk int               `json:"chunk"`
	Range domain.ChunkRange `json:"range"`
	Dir   string            `json:"dir"`
	Queue string            `json:"queue,omitempty"`
}

// JobCompletedPayload — payload о выполненном job unit.
type JobCompletedPayload struct {
	Run      string `json:"run"`
	Tile     string `json:"tile"`
	Chunk    int    `json:"chunk"`
	Status   string `json:"status"` // SUCCEEDED или FAILED
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Publisher публикует job-сообщения.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

// publish сериализует и отправляет сообщение.
func (p *Publisher) publish(ctx context.Context, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ch := p.conn.Channel()
	if ch == nil {
		return fmt.Errorf("no channel available")
	}

	err = ch.PublishWithContext(
		ctx,
		string(ExchangeJobs), // exchange
		string(routingKey),   // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт брокера
			MessageId:    msg.ID,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.logger.Debug("published message",
		"routing_key", routingKey,
		"message_id", msg.ID,
		"type", msg.Type,
	)
	return nil
}

// PublishJobReady публикует job unit в очередь воркеров.
// Fire-and-forget: оркестратор не ждёт подтверждения выполнения.
func (p *Publisher) PublishJobReady(ctx context.Context, payload JobReadyPayload) error {
	return p.publish(ctx, RoutingKeyReady, &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeJobReady,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}

// PublishJobCompleted публикует результат выполнения job unit.
func (p *Publisher) PublishJobCompleted(ctx context.Context, payload JobCompletedPayload) error {
	return p.publish(ctx, RoutingKeyCompleted, &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeJobCompleted,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}
