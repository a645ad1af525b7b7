package kafka

import (
	"Atrium/internal/api/config"
	"Atrium/internal/pkg/mongo"
	"Atrium/internal/pkg/util"
	"Atrium/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	notificationConsumer sarama.ConsumerGroup
	notificationHandler  sarama.ConsumerGroupHandler
}

func NewConsumerManager(
	cfg *config.Config,
	inboxRepo mongo.InboxRepo,
	userRepo repository.UserRepo,
	mail *util.MailClient,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	notificationConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.NotificationGroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	notificationHandler := NewNotificationHandler(inboxRepo, userRepo, mail)

	return &ConsumerManager{
		notificationConsumer: notificationConsumer,
		notificationHandler:  notificationHandler,
	}, nil
}

// Start 启动消费者，阻塞到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.Kafka.NotificationTopic
		log.Info("notification consumer started", "topic", topic)
		for {
			if err := m.notificationConsumer.Consume(ctx, []string{topic}, m.notificationHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.notificationConsumer.Close(); err != nil {
		log.Error("Failed to close notification consumer", "err", err)
	}
	return nil
}
