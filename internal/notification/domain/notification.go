package domain

import (
	"context"
	"time"
)

// Notification 待投递的外部通知
type Notification struct {
	Event      string    `json:"event"`
	MerchantID string    `json:"merchantid"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Sender 通知投递出口
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}
