package domain

import (
	"context"
)

// MerchantRepository 账户仓储。唯一索引（merchant_id、email、phone）
// 冲突由实现转换为 apperr.ErrConflict，未命中返回 apperr.ErrNotFound。
type MerchantRepository interface {
	// Create 创建账户
	Create(ctx context.Context, m *Merchant) error
	// Update 整体保存账户（含汇总与状态）
	Update(ctx context.Context, m *Merchant) error
	// GetByMerchantID 按商户标识读取
	GetByMerchantID(ctx context.Context, merchantID string) (*Merchant, error)
	// GetByEmailOrPhone 按邮箱或手机号读取，登录用
	GetByEmailOrPhone(ctx context.Context, emailOrPhone string) (*Merchant, error)
}
