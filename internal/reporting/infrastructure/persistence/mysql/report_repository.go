package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	identity "github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	onboarding "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/merchantonboarding/internal/reporting/domain"
)

// reportRepository 报表仓储的 GORM 实现，全部查询基于商户汇总表
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓储
func NewReportRepository(database *gorm.DB) domain.Repository {
	return &reportRepository{db: database}
}

type labelCount struct {
	Label string
	Count int64
}

func (r *reportRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	var rows []labelCount
	err := r.db.WithContext(ctx).Model(&identity.Merchant{}).
		Select("role AS label, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to count by role", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Label] = row.Count
	}
	return out, nil
}

func (r *reportRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []labelCount
	err := r.db.WithContext(ctx).Model(&identity.Merchant{}).
		Select("onboarding_status AS label, COUNT(*) AS count").
		Group("onboarding_status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to count by status", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Label] = row.Count
	}
	return out, nil
}

func (r *reportRepository) AverageCompletion(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&identity.Merchant{}).
		Select(`AVG((company_completed + ubo_completed + payment_completed +
			settlement_completed + risk_completed + kyc_completed) / 6.0e0) * 100`).
		Scan(&avg).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to compute average completion", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *reportRepository) RegistrationsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.Merchant{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to count registrations", err)
	}
	return count, nil
}

func (r *reportRepository) DailyRegistrations(ctx context.Context, days int) ([]domain.DailyCount, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)
	var rows []domain.DailyCount
	err := r.db.WithContext(ctx).Model(&identity.Merchant{}).
		Select("DATE_FORMAT(created_at, '%Y-%m-%d') AS date, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("date").
		Order("date").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to bucket registrations", err)
	}
	return rows, nil
}

func (r *reportRepository) StepCompletionCounts(ctx context.Context) (map[onboarding.StepKind]int64, error) {
	var row struct {
		Company    int64
		UBO        int64 `gorm:"column:ubo"`
		Payment    int64
		Settlement int64
		Risk       int64
		KYC        int64 `gorm:"column:kyc"`
	}
	err := r.db.WithContext(ctx).Model(&identity.Merchant{}).
		Select(`SUM(company_completed) AS company, SUM(ubo_completed) AS ubo,
			SUM(payment_completed) AS payment, SUM(settlement_completed) AS settlement,
			SUM(risk_completed) AS risk, SUM(kyc_completed) AS kyc`).
		Scan(&row).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to count step completion", err)
	}
	return map[onboarding.StepKind]int64{
		onboarding.StepCompany:    row.Company,
		onboarding.StepUBO:        row.UBO,
		onboarding.StepPayment:    row.Payment,
		onboarding.StepSettlement: row.Settlement,
		onboarding.StepRisk:       row.Risk,
		onboarding.StepKYC:        row.KYC,
	}, nil
}

func (r *reportRepository) ListMerchants(ctx context.Context, q domain.MerchantListQuery) ([]identity.Merchant, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 200 {
		q.PageSize = 20
	}

	query := r.db.WithContext(ctx).Model(&identity.Merchant{})
	if q.Status != "" {
		query = query.Where("onboarding_status = ?", q.Status)
	}
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR phone LIKE ? OR merchant_id LIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to count merchants", err)
	}

	var merchants []identity.Merchant
	err := query.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&merchants).Error
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to list merchants", err)
	}
	return merchants, total, nil
}

func (r *reportRepository) GetMerchant(ctx context.Context, merchantID string) (*identity.Merchant, error) {
	var merchant identity.Merchant
	err := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID).First(&merchant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "merchant not found", err)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load merchant", err)
	}
	return &merchant, nil
}
