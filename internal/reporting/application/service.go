package application

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	onboarding "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/merchantonboarding/internal/reporting/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/cache"
	"github.com/wyfcoding/merchantonboarding/pkg/logger"
)

const (
	dashboardCacheKey = "reporting:dashboard"
	dashboardCacheTTL = time.Minute

	// recentWindowDays 仪表盘“近期注册”的滚动窗口
	recentWindowDays = 7

	exportPageSize = 500
)

// ReportingService 管理端报表应用服务
type ReportingService struct {
	repo  domain.Repository
	cache *cache.RedisCache
}

// NewReportingService 创建报表应用服务
func NewReportingService(repo domain.Repository, c *cache.RedisCache) *ReportingService {
	return &ReportingService{repo: repo, cache: c}
}

// Dashboard 返回仪表盘统计，短 TTL 缓存，缓存故障退化为直查
func (s *ReportingService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	if s.cache != nil {
		var cached domain.DashboardStats
		err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn(ctx, "dashboard cache read failed", "error", err)
		}
	}

	stats, err := s.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, stats, dashboardCacheTTL); err != nil {
			logger.Warn(ctx, "dashboard cache write failed", "error", err)
		}
	}
	return stats, nil
}

func (s *ReportingService) buildDashboard(ctx context.Context) (*domain.DashboardStats, error) {
	roleCounts, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := s.repo.AverageCompletion(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RegistrationsSince(ctx, time.Now().AddDate(0, 0, -recentWindowDays))
	if err != nil {
		return nil, err
	}
	daily, err := s.repo.DailyRegistrations(ctx, recentWindowDays)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range roleCounts {
		total += n
	}
	return &domain.DashboardStats{
		TotalMerchants:      total,
		RoleCounts:          roleCounts,
		StatusCounts:        statusCounts,
		AverageCompletion:   avg,
		RecentRegistrations: recent,
		DailyRegistrations:  daily,
		GeneratedAt:         time.Now(),
	}, nil
}

// StepCompletion 返回各步骤完成统计，含全平台完成率
func (s *ReportingService) StepCompletion(ctx context.Context) ([]domain.StepCompletion, error) {
	counts, err := s.repo.StepCompletionCounts(ctx)
	if err != nil {
		return nil, err
	}
	roleCounts, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range roleCounts {
		total += n
	}

	out := make([]domain.StepCompletion, 0, onboarding.StepCount)
	for _, kind := range onboarding.StepOrder() {
		entry := domain.StepCompletion{
			Step:      kind.String(),
			Title:     kind.Title(),
			Completed: counts[kind],
		}
		if total > 0 {
			entry.Rate = float64(counts[kind]) / float64(total) * 100
		}
		out = append(out, entry)
	}
	return out, nil
}

// MerchantListResult 分页后的商户清单
type MerchantListResult struct {
	Merchants []MerchantRowDTO `json:"merchants"`
	Total     int64            `json:"total"`
	Page      int              `json:"page"`
	PageSize  int              `json:"pageSize"`
}

// MerchantRowDTO 清单中的单行商户
type MerchantRowDTO struct {
	MerchantID     string    `json:"merchantid"`
	FullName       string    `json:"fullname"`
	Email          string    `json:"email"`
	Phone          string    `json:"phonenumber"`
	Location       string    `json:"location"`
	Role           string    `json:"role"`
	Status         string    `json:"onboardingStatus"`
	CompletedSteps int       `json:"completedSteps"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListMerchants 分页查询商户清单
func (s *ReportingService) ListMerchants(ctx context.Context, q domain.MerchantListQuery) (*MerchantListResult, error) {
	if q.Status != "" && !onboarding.OnboardingStatus(q.Status).Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "Invalid status filter: %s", q.Status)
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}

	merchants, total, err := s.repo.ListMerchants(ctx, q)
	if err != nil {
		return nil, err
	}

	rows := make([]MerchantRowDTO, 0, len(merchants))
	for i := range merchants {
		m := &merchants[i]
		rows = append(rows, MerchantRowDTO{
			MerchantID:     m.MerchantID,
			FullName:       m.FullName,
			Email:          m.Email,
			Phone:          m.Phone,
			Location:       m.Location,
			Role:           m.Role,
			Status:         string(m.Status),
			CompletedSteps: m.CompletedCount(),
			CreatedAt:      m.CreatedAt,
		})
	}
	return &MerchantListResult{Merchants: rows, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// MerchantDetailDTO 管理端单个商户视图，附带步骤汇总
type MerchantDetailDTO struct {
	MerchantRowDTO
	StepSummary map[string]onboarding.StepFlag `json:"stepSummary"`
	UpdatedAt   time.Time                      `json:"updatedAt"`
}

// MerchantDetail 按商户号查看单个商户
func (s *ReportingService) MerchantDetail(ctx context.Context, merchantID string) (*MerchantDetailDTO, error) {
	m, err := s.repo.GetMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	summary := make(map[string]onboarding.StepFlag, onboarding.StepCount)
	for kind, flag := range m.Summary() {
		summary[kind.String()] = flag
	}
	return &MerchantDetailDTO{
		MerchantRowDTO: MerchantRowDTO{
			MerchantID:     m.MerchantID,
			FullName:       m.FullName,
			Email:          m.Email,
			Phone:          m.Phone,
			Location:       m.Location,
			Role:           m.Role,
			Status:         string(m.Status),
			CompletedSteps: m.CompletedCount(),
			CreatedAt:      m.CreatedAt,
		},
		StepSummary: summary,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// PendingReviews 返回已完成全部步骤、等待审批的商户
func (s *ReportingService) PendingReviews(ctx context.Context, page, pageSize int) (*MerchantListResult, error) {
	return s.ListMerchants(ctx, domain.MerchantListQuery{
		Page:     page,
		PageSize: pageSize,
		Status:   string(onboarding.StatusReviewed),
	})
}

// ExportCSV 将商户清单以 CSV 流式写出，分页读取避免整表载入内存
func (s *ReportingService) ExportCSV(ctx context.Context, q domain.MerchantListQuery, w io.Writer) error {
	writer := csv.NewWriter(w)
	header := []string{"merchantid", "fullname", "email", "phonenumber", "location", "role", "onboardingStatus", "completedSteps", "createdAt"}
	if err := writer.Write(header); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to write CSV header", err)
	}

	q.Page = 1
	q.PageSize = exportPageSize
	for {
		merchants, _, err := s.repo.ListMerchants(ctx, q)
		if err != nil {
			return err
		}
		if len(merchants) == 0 {
			break
		}
		for i := range merchants {
			m := &merchants[i]
			record := []string{
				m.MerchantID,
				m.FullName,
				m.Email,
				m.Phone,
				m.Location,
				m.Role,
				string(m.Status),
				strconv.Itoa(m.CompletedCount()),
				m.CreatedAt.Format(time.RFC3339),
			}
			if err := writer.Write(record); err != nil {
				return apperr.Wrap(apperr.KindInternal, "failed to write CSV row", err)
			}
		}
		if len(merchants) < q.PageSize {
			break
		}
		q.Page++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to flush CSV", err)
	}
	return nil
}

// ExportFilename 导出文件名，带时间戳
func ExportFilename() string {
	return fmt.Sprintf("merchant_profiles_%s.csv", time.Now().Format("20060102_150405"))
}
