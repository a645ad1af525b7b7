package kafka

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	consumeBatchSize  = 32
	consumeBatchFlush = 1 * time.Second
	retryBaseInterval = 100 * time.Millisecond
	retryMaxInterval  = 5 * time.Second
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 攒批消费。批量满或定时器到点时落一次业务逻辑，
// 整批完成后统一提交位点
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, consumeBatchSize)
	ticker := time.NewTicker(consumeBatchFlush)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		processBatch(session, batch, logic)
		batch = batch[:0]
	}

	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= consumeBatchSize {
				flush()
				ticker.Reset(consumeBatchFlush)
			}
		case <-ticker.C:
			flush()
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 批内并发处理。单条失败按指数退避无限重试，
// 直到成功或会话结束，保证位点之前的消息都已处理
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup
	for _, msg := range messages {
		wg.Add(1)
		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			retryMessage(session, m, logic)
		}(msg)
	}
	wg.Wait()

	session.MarkMessage(messages[len(messages)-1], "")
}

func retryMessage(session sarama.ConsumerGroupSession, msg *sarama.ConsumerMessage, logic LogicFunc) {
	interval := retryBaseInterval
	for {
		err := logic(session.Context(), msg)
		if err == nil {
			return
		}
		select {
		case <-session.Context().Done():
			return
		default:
		}

		log.Error("process message error", "topic", msg.Topic, "offset", msg.Offset, "err", err)
		time.Sleep(interval)

		interval *= 2
		if interval > retryMaxInterval {
			interval = retryMaxInterval
		}
	}
}
