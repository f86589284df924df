package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// OrderNotification representa o evento publicado quando um pedido é confirmado
type OrderNotification struct {
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NotificationProducer define o contrato de publicação de notificações
type NotificationProducer interface {
	OrderConfirmed(ctx context.Context, order *Order) error
}

// KafkaNotificationProducer implementa NotificationProducer usando Kafka
type KafkaNotificationProducer struct {
	writer *kafka.Writer
}

// NewKafkaNotificationProducer cria uma nova instância de KafkaNotificationProducer
func NewKafkaNotificationProducer(brokers []string, topic string) *KafkaNotificationProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaNotificationProducer{writer: writer}
}

// OrderConfirmed publica o evento de pedido confirmado
func (p *KafkaNotificationProducer) OrderConfirmed(ctx context.Context, order *Order) error {
	event := OrderNotification{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order notification: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.UserID),
		Value: payload,
	})
}

// Close fecha o writer Kafka
func (p *KafkaNotificationProducer) Close() error {
	return p.writer.Close()
}
