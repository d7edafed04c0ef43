// Package domain 管理端报表上下文：平台级统计与商户清单查询
package domain

import (
	"context"
	"time"

	identity "github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	onboarding "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
)

// DailyCount 单日注册量
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DashboardStats 管理端仪表盘统计
type DashboardStats struct {
	TotalMerchants      int64            `json:"totalMerchants"`
	RoleCounts          map[string]int64 `json:"roleCounts"`
	StatusCounts        map[string]int64 `json:"statusCounts"`
	AverageCompletion   float64          `json:"averageCompletion"`
	RecentRegistrations int64            `json:"recentRegistrations"`
	DailyRegistrations  []DailyCount     `json:"dailyRegistrations"`
	GeneratedAt         time.Time        `json:"generatedAt"`
}

// StepCompletion 单个步骤的完成统计
type StepCompletion struct {
	Step      string  `json:"step"`
	Title     string  `json:"title"`
	Completed int64   `json:"completed"`
	Rate      float64 `json:"rate"`
}

// MerchantListQuery 商户清单查询条件
type MerchantListQuery struct {
	Page     int
	PageSize int
	// Status 可选的状态过滤
	Status string
	// Search 对姓名/邮箱/商户号做模糊匹配
	Search string
	// Role 可选的角色过滤
	Role string
}

// Repository 报表查询仓储，全部为只读聚合
type Repository interface {
	// CountByRole 按角色统计账户数
	CountByRole(ctx context.Context) (map[string]int64, error)
	// CountByStatus 按入驻状态统计商户数
	CountByStatus(ctx context.Context) (map[string]int64, error)
	// AverageCompletion 全平台平均完成度，0-100
	AverageCompletion(ctx context.Context) (float64, error)
	// RegistrationsSince 指定时刻之后的注册量
	RegistrationsSince(ctx context.Context, since time.Time) (int64, error)
	// DailyRegistrations 最近 days 天按天分桶的注册量
	DailyRegistrations(ctx context.Context, days int) ([]DailyCount, error)
	// StepCompletionCounts 每个步骤的完成商户数
	StepCompletionCounts(ctx context.Context) (map[onboarding.StepKind]int64, error)
	// ListMerchants 分页查询商户清单，返回记录与总数
	ListMerchants(ctx context.Context, q MerchantListQuery) ([]identity.Merchant, int64, error)
	// GetMerchant 按商户号读取单个商户，不存在返回 apperr.ErrNotFound
	GetMerchant(ctx context.Context, merchantID string) (*identity.Merchant, error)
}
