package kafka

import (
	"Atrium/internal/api/config"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

type EventProducer interface {
	PublishNotification(ctx context.Context, event *NotificationEvent) error
	Close() error
}

type eventProducerImpl struct {
	producer sarama.SyncProducer
	topic    string
}

// NewEventProducer 创建同步生产者，通知事件要求不丢
func NewEventProducer(cfg *config.Config) (EventProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}

	return &eventProducerImpl{
		producer: producer,
		topic:    cfg.Kafka.NotificationTopic,
	}, nil
}

// PublishNotification 发布互动通知事件，按接收者分区保序
func (s *eventProducerImpl) PublishNotification(ctx context.Context, event *NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.ReceiverID, 10)),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "notification event published",
		"type", event.Type,
		"receiverID", event.ReceiverID,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (s *eventProducerImpl) Close() error {
	return s.producer.Close()
}
