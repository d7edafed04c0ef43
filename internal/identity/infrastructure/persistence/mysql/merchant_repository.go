package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/db"
)

// merchantRepository 商户仓储的 GORM 实现
type merchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository 创建商户仓储
func NewMerchantRepository(database *gorm.DB) domain.MerchantRepository {
	return &merchantRepository{db: database}
}

func (r *merchantRepository) Create(ctx context.Context, m *domain.Merchant) error {
	if err := db.FromContext(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *merchantRepository) Update(ctx context.Context, m *domain.Merchant) error {
	if err := db.FromContext(ctx, r.db).WithContext(ctx).Save(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *merchantRepository) GetByMerchantID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	var m domain.Merchant
	err := db.FromContext(ctx, r.db).WithContext(ctx).Where("merchant_id = ?", merchantID).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *merchantRepository) GetByEmailOrPhone(ctx context.Context, identifier string) (*domain.Merchant, error) {
	var m domain.Merchant
	err := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("email = ? OR phone = ?", identifier, identifier).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// translate 将 GORM 错误映射到统一错误体系
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.KindNotFound, "merchant not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.KindConflict, "merchant already exists", err)
	default:
		return apperr.Wrap(apperr.KindInternal, "database error", err)
	}
}
