package application

import (
	"context"
	"time"

	identity "github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	"github.com/wyfcoding/merchantonboarding/internal/notification/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/logger"
	"github.com/wyfcoding/merchantonboarding/pkg/utils"
)

// Dispatcher 异步尽力投递通知，失败只记录日志，不影响主流程
type Dispatcher struct {
	sender  domain.Sender
	timeout time.Duration
}

// NewDispatcher 创建通知分发器
func NewDispatcher(sender domain.Sender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{sender: sender, timeout: timeout}
}

// MerchantRegistered 商户注册后触发回调，调用方不等待结果
func (d *Dispatcher) MerchantRegistered(ev identity.MerchantRegisteredEvent) {
	d.dispatch("merchant.registered", ev.MerchantID, ev)
}

func (d *Dispatcher) dispatch(event, merchantID string, payload any) {
	if d.sender == nil {
		return
	}
	n := &domain.Notification{
		Event:      event,
		MerchantID: merchantID,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		err := utils.Retry(3, time.Second, func() error {
			return d.sender.Send(ctx, n)
		})
		if err != nil {
			logger.Warn(ctx, "webhook notification failed", "event", event, "merchant_id", merchantID, "error", err)
		}
	}()
}
