package notifier

import (
	"context"
	"errors"
)

// ============================================================================
// 通知发送器
// ============================================================================
//
// 认购成功后可以给客户发一条通知，支持 email / sms 两种渠道。
// 通知属于旁路能力：发送方式在启动时由配置决定（none / kafka / outbox），
// 业务代码只依赖 Notifier 接口，不感知具体实现。

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

var (
	ErrUnsupportedChannel = errors.New("不支持的通知渠道")
)

// Notifier 通知发送接口
// channel 只允许 email / sms，其余渠道返回 ErrUnsupportedChannel
type Notifier interface {
	Send(ctx context.Context, destination, message, channel string) error
}

// ValidateChannel 校验通知渠道
func ValidateChannel(channel string) error {
	switch channel {
	case ChannelEmail, ChannelSMS:
		return nil
	default:
		return ErrUnsupportedChannel
	}
}
