package domain

import (
	"context"

	"gorm.io/gorm"
)

// ReadMark 商户对单条通知的已读标记。
// 通知本身由入驻状态派生，不落库，只持久化已读集合。
type ReadMark struct {
	gorm.Model
	MerchantID     string `gorm:"column:merchant_id;type:varchar(64);uniqueIndex:idx_read_marks_merchant_notification;not null" json:"merchantid"`
	NotificationID string `gorm:"column:notification_id;type:varchar(128);uniqueIndex:idx_read_marks_merchant_notification;not null" json:"notificationId"`
}

// TableName 指定表名
func (ReadMark) TableName() string {
	return "notification_read_marks"
}

// ReadMarkRepository 已读标记仓储
type ReadMarkRepository interface {
	// Mark 批量记录已读，重复标记幂等
	Mark(ctx context.Context, merchantID string, notificationIDs []string) error
	// ReadIDs 返回商户已读的通知标识集合
	ReadIDs(ctx context.Context, merchantID string) (map[string]bool, error)
}
