package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MessageReader define o contrato de leitura de mensagens da fila
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NotificationConsumer consome eventos de pedido confirmado e dispara a
// notificação ao usuário
type NotificationConsumer struct {
	reader MessageReader
	tracer trace.Tracer
}

// NewNotificationConsumer cria uma nova instância de NotificationConsumer
func NewNotificationConsumer(reader MessageReader, tracer trace.Tracer) *NotificationConsumer {
	return &NotificationConsumer{
		reader: reader,
		tracer: tracer,
	}
}

// Run consome mensagens até o contexto ser cancelado. Payloads malformados
// são logados, commitados e pulados; sem commit eles seriam reentregues
// para sempre.
func (c *NotificationConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		c.handleMessage(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Printf("❌ [NOTIFICATIONS] Failed to commit message at offset %d: %v", msg.Offset, err)
		}
	}
}

func (c *NotificationConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	_, span := c.tracer.Start(ctx, "handle_order_notification")
	defer span.End()

	var notification OrderNotification
	if err := json.Unmarshal(msg.Value, &notification); err != nil {
		span.RecordError(err)
		log.Printf("❌ [NOTIFICATIONS] Skipping malformed payload at offset %d: %v", msg.Offset, err)
		return
	}

	span.SetAttributes(
		attribute.String("order_id", notification.OrderID),
		attribute.String("user_id", notification.UserID),
	)

	// Canal real de entrega (e-mail, push) fica fora daqui; o serviço registra
	// a notificação que seria enviada
	log.Printf("📦 [NOTIFICATIONS] Order %s confirmed for user %s (total: %s)",
		notification.OrderID, notification.UserID, notification.TotalAmount)
}
