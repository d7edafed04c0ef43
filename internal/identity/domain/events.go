package domain

import (
	"context"
	"time"
)

// EventPublisher 领域事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// MerchantRegisteredEvent 商户注册事件
type MerchantRegisteredEvent struct {
	MerchantID string    `json:"merchantid"`
	FullName   string    `json:"fullname"`
	Email      string    `json:"email"`
	Phone      string    `json:"phonenumber"`
	Role       string    `json:"role"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProfileUpdatedEvent 资料更新事件
type ProfileUpdatedEvent struct {
	MerchantID string    `json:"merchantid"`
	Timestamp  time.Time `json:"timestamp"`
}
