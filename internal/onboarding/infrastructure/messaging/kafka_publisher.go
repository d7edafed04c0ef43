package messaging

import (
	"context"

	"github.com/wyfcoding/merchantonboarding/pkg/mq"
)

// KafkaEventPublisher 基于 Kafka 的领域事件发布器
// 同时满足 identity 与 onboarding 两个上下文的 EventPublisher 接口
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaEventPublisher 创建事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

// Publish 发布领域事件，key 为商户号以保证同商户事件有序
func (p *KafkaEventPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	return p.producer.SendMessage(ctx, topic, key, event)
}
