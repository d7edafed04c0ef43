package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	identity "github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	onboarding "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/merchantonboarding/internal/reporting/domain"
)

type fakeReportRepo struct {
	merchants []identity.Merchant
}

func (r *fakeReportRepo) CountByRole(context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, m := range r.merchants {
		out[m.Role]++
	}
	return out, nil
}

func (r *fakeReportRepo) CountByStatus(context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, m := range r.merchants {
		out[string(m.Status)]++
	}
	return out, nil
}

func (r *fakeReportRepo) AverageCompletion(context.Context) (float64, error) {
	if len(r.merchants) == 0 {
		return 0, nil
	}
	var sum float64
	for _, m := range r.merchants {
		sum += float64(m.CompletedCount()) / float64(onboarding.StepCount) * 100
	}
	return sum / float64(len(r.merchants)), nil
}

func (r *fakeReportRepo) RegistrationsSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, m := range r.merchants {
		if m.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeReportRepo) DailyRegistrations(context.Context, int) ([]domain.DailyCount, error) {
	return []domain.DailyCount{{Date: "2026-08-30", Count: int64(len(r.merchants))}}, nil
}

func (r *fakeReportRepo) StepCompletionCounts(context.Context) (map[onboarding.StepKind]int64, error) {
	out := make(map[onboarding.StepKind]int64)
	for _, m := range r.merchants {
		for kind, done := range m.CompletedFlags() {
			if done {
				out[kind]++
			}
		}
	}
	return out, nil
}

func (r *fakeReportRepo) ListMerchants(_ context.Context, q domain.MerchantListQuery) ([]identity.Merchant, int64, error) {
	var filtered []identity.Merchant
	for _, m := range r.merchants {
		if q.Status != "" && string(m.Status) != q.Status {
			continue
		}
		filtered = append(filtered, m)
	}
	total := int64(len(filtered))

	start := (q.Page - 1) * q.PageSize
	if start >= len(filtered) {
		return nil, total, nil
	}
	end := start + q.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (r *fakeReportRepo) GetMerchant(_ context.Context, merchantID string) (*identity.Merchant, error) {
	for i := range r.merchants {
		if r.merchants[i].MerchantID == merchantID {
			cp := r.merchants[i]
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "merchant not found")
}

func seedMerchants(n int, status onboarding.OnboardingStatus) []identity.Merchant {
	out := make([]identity.Merchant, 0, n)
	for i := 0; i < n; i++ {
		m := identity.NewMerchant(
			"MID"+string(rune('A'+i)),
			identity.RoleMerchant,
			"Merchant "+string(rune('A'+i)),
			string(rune('a'+i))+"@example.com",
			"07000000"+string(rune('0'+i)),
			"Nairobi",
			"hash",
		)
		m.Status = status
		m.CreatedAt = time.Now().Add(-time.Duration(i) * time.Hour)
		out = append(out, *m)
	}
	return out
}

func TestDashboardAggregates(t *testing.T) {
	repo := &fakeReportRepo{merchants: seedMerchants(3, onboarding.StatusInProgress)}
	svc := NewReportingService(repo, nil)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if stats.TotalMerchants != 3 {
		t.Errorf("total = %d, want 3", stats.TotalMerchants)
	}
	if stats.StatusCounts["in-progress"] != 3 {
		t.Errorf("status counts = %+v", stats.StatusCounts)
	}
	if stats.RecentRegistrations != 3 {
		t.Errorf("recent = %d, want 3", stats.RecentRegistrations)
	}
}

func TestStepCompletionRates(t *testing.T) {
	merchants := seedMerchants(4, onboarding.StatusInProgress)
	for i := range merchants {
		merchants[i].Company = onboarding.StepFlag{Completed: true}
	}
	merchants[0].UBO = onboarding.StepFlag{Completed: true}

	svc := NewReportingService(&fakeReportRepo{merchants: merchants}, nil)
	stats, err := svc.StepCompletion(context.Background())
	if err != nil {
		t.Fatalf("step completion failed: %v", err)
	}
	if len(stats) != onboarding.StepCount {
		t.Fatalf("expected %d entries, got %d", onboarding.StepCount, len(stats))
	}
	if stats[0].Step != "companyinformation" || stats[0].Completed != 4 || stats[0].Rate != 100 {
		t.Errorf("company stats = %+v", stats[0])
	}
	if stats[1].Step != "ubo" || stats[1].Completed != 1 || stats[1].Rate != 25 {
		t.Errorf("ubo stats = %+v", stats[1])
	}
}

func TestListMerchantsRejectsBadStatus(t *testing.T) {
	svc := NewReportingService(&fakeReportRepo{}, nil)
	_, err := svc.ListMerchants(context.Background(), domain.MerchantListQuery{Status: "archived"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPendingReviewsFiltersReviewed(t *testing.T) {
	merchants := append(seedMerchants(2, onboarding.StatusReviewed), seedMerchants(1, onboarding.StatusApproved)...)
	svc := NewReportingService(&fakeReportRepo{merchants: merchants}, nil)

	result, err := svc.PendingReviews(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("pending reviews failed: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("total = %d, want 2", result.Total)
	}
	for _, row := range result.Merchants {
		if row.Status != "reviewed" {
			t.Errorf("unexpected status %s in pending reviews", row.Status)
		}
	}
}

func TestMerchantDetail(t *testing.T) {
	merchants := seedMerchants(2, onboarding.StatusInProgress)
	merchants[0].SetStepFlag(onboarding.StepCompany, onboarding.StepFlag{Label: "Acme Ltd", Completed: true})
	svc := NewReportingService(&fakeReportRepo{merchants: merchants}, nil)

	dto, err := svc.MerchantDetail(context.Background(), merchants[0].MerchantID)
	if err != nil {
		t.Fatalf("merchant detail failed: %v", err)
	}
	if dto.MerchantID != merchants[0].MerchantID {
		t.Errorf("merchant id = %s, want %s", dto.MerchantID, merchants[0].MerchantID)
	}
	if dto.Status != "in-progress" || dto.CompletedSteps != 1 {
		t.Errorf("status/completed = %s/%d, want in-progress/1", dto.Status, dto.CompletedSteps)
	}
	company := dto.StepSummary["companyinformation"]
	if !company.Completed || company.Label != "Acme Ltd" {
		t.Errorf("company summary = %+v, want completed with label", company)
	}
	if len(dto.StepSummary) != onboarding.StepCount {
		t.Errorf("summary entries = %d, want %d", len(dto.StepSummary), onboarding.StepCount)
	}
}

func TestMerchantDetailUnknownMerchant(t *testing.T) {
	svc := NewReportingService(&fakeReportRepo{}, nil)
	_, err := svc.MerchantDetail(context.Background(), "MIDnope")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	repo := &fakeReportRepo{merchants: seedMerchants(3, onboarding.StatusInProgress)}
	svc := NewReportingService(repo, nil)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), domain.MerchantListQuery{}, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][0] != "merchantid" || records[0][6] != "onboardingStatus" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][6] != "in-progress" {
		t.Errorf("unexpected status column: %v", records[1])
	}
}
