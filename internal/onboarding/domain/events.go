package domain

import (
	"context"
	"time"
)

// EventPublisher 领域事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// StepCompletedEvent 步骤完成事件
type StepCompletedEvent struct {
	MerchantID string           `json:"merchantid"`
	Step       string           `json:"step"`
	Status     OnboardingStatus `json:"status"`
	Timestamp  time.Time        `json:"timestamp"`
}

// MerchantApprovedEvent 商户审批通过事件
type MerchantApprovedEvent struct {
	MerchantID string    `json:"merchantid"`
	Reason     string    `json:"reason"`
	Notes      string    `json:"notes"`
	DecidedBy  string    `json:"decidedBy"`
	Timestamp  time.Time `json:"timestamp"`
}

// MerchantRejectedEvent 商户审批拒绝事件
type MerchantRejectedEvent struct {
	MerchantID string    `json:"merchantid"`
	Reason     string    `json:"reason"`
	Notes      string    `json:"notes"`
	DecidedBy  string    `json:"decidedBy"`
	Timestamp  time.Time `json:"timestamp"`
}

// OnboardingResetEvent 入驻重置事件
type OnboardingResetEvent struct {
	MerchantID string    `json:"merchantid"`
	ResetBy    string    `json:"resetBy"`
	Timestamp  time.Time `json:"timestamp"`
}
