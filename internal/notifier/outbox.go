package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fundsystem/internal/model"
	"fundsystem/internal/repository"
)

// OutboxNotifier 发件箱模式的通知器
//
// Send 只负责把通知写入发件箱表，由后台任务（internal/job.OutboxSender）
// 异步投递到 Kafka。好处是认购结果先落库，通知投递失败不会影响业务，
// 失败消息还能按重试策略补发。
type OutboxNotifier struct {
	outboxRepo *repository.OutboxRepository
	topic      string
}

func NewOutboxNotifier(outboxRepo *repository.OutboxRepository, topic string) *OutboxNotifier {
	return &OutboxNotifier{
		outboxRepo: outboxRepo,
		topic:      topic,
	}
}

func (n *OutboxNotifier) Send(ctx context.Context, destination, message, channel string) error {
	if err := ValidateChannel(channel); err != nil {
		return err
	}

	payload := notificationPayload{
		Destination: destination,
		Channel:     channel,
		Message:     message,
		SentAt:      time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化通知消息失败: %w", err)
	}

	msg := &model.NotificationOutbox{
		MessageKey: destination,
		Topic:      n.topic,
		Payload:    string(data),
		Status:     model.OutboxStatusPending,
	}
	if err := n.outboxRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("写入通知发件箱失败: %w", err)
	}
	return nil
}
