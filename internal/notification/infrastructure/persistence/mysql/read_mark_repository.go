package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/notification/domain"
)

// readMarkRepository 已读标记仓储的 GORM 实现
type readMarkRepository struct {
	db *gorm.DB
}

// NewReadMarkRepository 创建已读标记仓储
func NewReadMarkRepository(database *gorm.DB) domain.ReadMarkRepository {
	return &readMarkRepository{db: database}
}

func (r *readMarkRepository) Mark(ctx context.Context, merchantID string, notificationIDs []string) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	marks := make([]domain.ReadMark, 0, len(notificationIDs))
	for _, id := range notificationIDs {
		marks = append(marks, domain.ReadMark{MerchantID: merchantID, NotificationID: id})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&marks).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark notifications read", err)
	}
	return nil
}

func (r *readMarkRepository) ReadIDs(ctx context.Context, merchantID string) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.ReadMark{}).
		Where("merchant_id = ?", merchantID).
		Pluck("notification_id", &ids).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load read marks", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
