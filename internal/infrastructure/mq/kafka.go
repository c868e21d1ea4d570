package mq

import (
	"log"

	"fundsystem/internal/config"

	"github.com/IBM/sarama"
)

// Producer 消息生产者接口
// 通知器和发件箱任务只依赖这个接口，便于测试时替换
type Producer interface {
	SendMessage(topic, key, value string) error
}

// KafkaProducer sarama 同步生产者封装
type KafkaProducer struct {
	producer sarama.SyncProducer
}

// InitKafka 初始化 Kafka 生产者
func InitKafka(cfg *config.KafkaConfig) *KafkaProducer {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll // 等待所有副本确认
	kafkaConfig.Producer.Retry.Max = 3                    // 重试次数
	kafkaConfig.Producer.Return.Successes = true          // 返回成功消息

	producer, err := sarama.NewSyncProducer(cfg.Brokers, kafkaConfig)
	if err != nil {
		log.Fatalf("创建 Kafka 生产者失败: %v", err)
	}

	log.Println("Kafka 生产者创建成功")
	return &KafkaProducer{producer: producer}
}

// SendMessage 发送消息到 Kafka
func (p *KafkaProducer) SendMessage(topic, key, value string) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.StringEncoder(value),
	}

	_, _, err := p.producer.SendMessage(msg)
	return err
}

// Close 关闭 Kafka 生产者
func (p *KafkaProducer) Close() {
	if p.producer != nil {
		p.producer.Close()
	}
}
