package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fundsystem/internal/infrastructure/mq"
)

// notificationPayload 投递到 Kafka 的通知消息体
// 下游投递服务按 channel 字段分发到邮件/短信网关
type notificationPayload struct {
	Destination string `json:"destination"`
	Channel     string `json:"channel"`
	Message     string `json:"message"`
	SentAt      string `json:"sent_at"`
}

// KafkaNotifier 同步发送到 Kafka 的通知器
// 发送失败会直接返回错误给调用方
type KafkaNotifier struct {
	producer mq.Producer
	topic    string
}

func NewKafkaNotifier(producer mq.Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
	}
}

func (n *KafkaNotifier) Send(ctx context.Context, destination, message, channel string) error {
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

	if err := n.producer.SendMessage(n.topic, destination, string(data)); err != nil {
		return fmt.Errorf("发送通知消息失败: %w", err)
	}
	return nil
}
