package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"hrcontracts/internal/platform/email"
)

type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("notifications")}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Handle(_ context.Context, event Event) error {
	s.logger.Info(event.Message,
		zap.String("type", event.Type),
		zap.String("entity_id", event.EntityID),
		zap.String("actor_id", event.ActorID),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaSink struct {
	writer MessageWriter
	topic  string
}

func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaSink(writer MessageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: writer, topic: topic}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Handle(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", event.Type, err)
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Topic: s.topic,
		Key:   []byte(event.EntityID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// EmailSink mails HR about terminations and upcoming expirations.
type EmailSink struct {
	mailer email.Mailer
	to     string
}

func NewEmailSink(mailer email.Mailer, to string) *EmailSink {
	return &EmailSink{mailer: mailer, to: to}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Handle(ctx context.Context, event Event) error {
	if strings.TrimSpace(s.to) == "" {
		return nil
	}
	var subject string
	switch event.Type {
	case TypeContractTerminated:
		subject = "Terminación de contrato registrada"
	case TypeContractExpiring:
		subject = "Contrato próximo a vencer"
	default:
		return nil
	}
	return s.mailer.Send(ctx, s.to, subject, event.Message)
}
