package application

import (
	"context"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/notification/domain"
	onboarding "github.com/wyfcoding/merchantonboarding/internal/onboarding/application"
	onboardingdomain "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
)

// StatusProvider 提供商户入驻聚合状态
type StatusProvider interface {
	Status(ctx context.Context, merchantID string) (*onboarding.StatusDTO, error)
}

// NotificationView 商户可见的单条通知
type NotificationView struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}

// NotificationListDTO 商户通知清单
type NotificationListDTO struct {
	MerchantID    string             `json:"merchantid"`
	Notifications []NotificationView `json:"notifications"`
	UnreadCount   int                `json:"unreadCount"`
}

// NotificationService 商户站内通知：由入驻状态派生条目，只持久化已读标记
type NotificationService struct {
	status StatusProvider
	reads  domain.ReadMarkRepository
}

// NewNotificationService 创建通知应用服务
func NewNotificationService(status StatusProvider, reads domain.ReadMarkRepository) *NotificationService {
	return &NotificationService{status: status, reads: reads}
}

// List 返回商户当前的通知清单，标记已读状态
func (s *NotificationService) List(ctx context.Context, merchantID string) (*NotificationListDTO, error) {
	views, err := s.derive(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	read, err := s.reads.ReadIDs(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	unread := 0
	for i := range views {
		views[i].Read = read[views[i].ID]
		if !views[i].Read {
			unread++
		}
	}
	return &NotificationListDTO{
		MerchantID:    merchantID,
		Notifications: views,
		UnreadCount:   unread,
	}, nil
}

// MarkRead 标记单条通知已读，通知不存在返回 apperr.ErrNotFound
func (s *NotificationService) MarkRead(ctx context.Context, merchantID, notificationID string) error {
	views, err := s.derive(ctx, merchantID)
	if err != nil {
		return err
	}
	for i := range views {
		if views[i].ID == notificationID {
			return s.reads.Mark(ctx, merchantID, []string{notificationID})
		}
	}
	return apperr.New(apperr.KindNotFound, "Notification not found")
}

// MarkAllRead 标记商户当前全部通知已读
func (s *NotificationService) MarkAllRead(ctx context.Context, merchantID string) error {
	views, err := s.derive(ctx, merchantID)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(views))
	for i := range views {
		ids = append(ids, views[i].ID)
	}
	return s.reads.Mark(ctx, merchantID, ids)
}

// derive 由入驻聚合状态生成通知条目：整体状态、已完成步骤、下一步提醒
func (s *NotificationService) derive(ctx context.Context, merchantID string) ([]NotificationView, error) {
	state, err := s.status.Status(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	views := []NotificationView{{
		ID:      "status:" + state.Status,
		Type:    "status",
		Message: state.Message,
	}}
	for _, kind := range onboardingdomain.StepOrder() {
		if state.StepSummary[kind.String()].Completed {
			views = append(views, NotificationView{
				ID:      "step:" + kind.String(),
				Type:    "step",
				Message: kind.Title() + " completed",
			})
		}
	}
	if state.NextStep != nil {
		views = append(views, NotificationView{
			ID:      "next:" + state.NextStep.Step,
			Type:    "reminder",
			Message: "Next step: " + state.NextStep.Title,
		})
	}
	return views, nil
}
