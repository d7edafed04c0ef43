package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	identity "github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	"github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/logger"
	"github.com/wyfcoding/merchantonboarding/pkg/metrics"
)

// Transactor 事务执行器，步骤记录与商户汇总的双写在同一事务内完成
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

// OnboardingService 入驻流程应用服务：步骤读写、状态聚合与审批
type OnboardingService struct {
	merchants identity.MerchantRepository
	steps     domain.StepRegistry
	publisher domain.EventPublisher
	tx        Transactor
	metrics   *metrics.Metrics
}

// NewOnboardingService 创建入驻应用服务
func NewOnboardingService(
	merchants identity.MerchantRepository,
	steps domain.StepRegistry,
	publisher domain.EventPublisher,
	tx Transactor,
	m *metrics.Metrics,
) *OnboardingService {
	return &OnboardingService{merchants: merchants, steps: steps, publisher: publisher, tx: tx, metrics: m}
}

func (s *OnboardingService) store(kind domain.StepKind) (domain.StepStore, error) {
	st, ok := s.steps.Store(kind)
	if !ok {
		return nil, apperr.Newf(apperr.KindInternal, "no store registered for step %s", kind)
	}
	return st, nil
}

// SubmitStep 首次提交步骤表单：写步骤记录并同步商户汇总与整体状态。
// 同一商户重复提交同一步骤返回冲突。
func (s *OnboardingService) SubmitStep(ctx context.Context, rec domain.StepRecord) error {
	return s.writeStep(ctx, rec, false)
}

// UpsertStep 创建或整体覆盖步骤表单
func (s *OnboardingService) UpsertStep(ctx context.Context, rec domain.StepRecord) error {
	return s.writeStep(ctx, rec, true)
}

func (s *OnboardingService) writeStep(ctx context.Context, rec domain.StepRecord, upsert bool) error {
	kind := rec.Kind()
	merchantID := rec.Merchant()
	if merchantID == "" {
		return apperr.New(apperr.KindValidation, "Merchant ID is required")
	}
	st, err := s.store(kind)
	if err != nil {
		return err
	}

	var status domain.OnboardingStatus
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		merchant, err := s.merchants.GetByMerchantID(ctx, merchantID)
		if err != nil {
			return err
		}
		if upsert {
			if err := st.Upsert(ctx, rec); err != nil {
				return err
			}
		} else {
			if err := st.Create(ctx, rec); err != nil {
				return err
			}
		}
		merchant.ApplyStepWrite(kind, rec.Flag())
		status = merchant.Status
		return s.merchants.Update(ctx, merchant)
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.StepsSubmitted.WithLabelValues(kind.String()).Inc()
	}
	s.publish(ctx, "onboarding.step.completed", merchantID, domain.StepCompletedEvent{
		MerchantID: merchantID,
		Step:       kind.String(),
		Status:     status,
		Timestamp:  time.Now(),
	})
	logger.Info(ctx, "onboarding step written", "merchant_id", merchantID, "step", kind.String(), "status", status)
	return nil
}

// MarkStepComplete 将已提交的步骤记录置为完成并同步商户汇总。
// 记录不存在返回 apperr.ErrNotFound。
func (s *OnboardingService) MarkStepComplete(ctx context.Context, kind domain.StepKind, merchantID string) error {
	st, err := s.store(kind)
	if err != nil {
		return err
	}

	var status domain.OnboardingStatus
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		merchant, err := s.merchants.GetByMerchantID(ctx, merchantID)
		if err != nil {
			return err
		}
		if err := st.MarkComplete(ctx, merchantID); err != nil {
			return err
		}
		rec, err := st.Get(ctx, merchantID)
		if err != nil {
			return err
		}
		merchant.ApplyStepWrite(kind, rec.Flag())
		status = merchant.Status
		return s.merchants.Update(ctx, merchant)
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.StepsSubmitted.WithLabelValues(kind.String()).Inc()
	}
	s.publish(ctx, "onboarding.step.completed", merchantID, domain.StepCompletedEvent{
		MerchantID: merchantID,
		Step:       kind.String(),
		Status:     status,
		Timestamp:  time.Now(),
	})
	logger.Info(ctx, "onboarding step marked complete", "merchant_id", merchantID, "step", kind.String(), "status", status)
	return nil
}

// GetStep 读取步骤表单
func (s *OnboardingService) GetStep(ctx context.Context, kind domain.StepKind, merchantID string) (domain.StepRecord, error) {
	st, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, merchantID)
}

// DeleteStep 删除步骤表单并清空对应汇总条目
func (s *OnboardingService) DeleteStep(ctx context.Context, kind domain.StepKind, merchantID string) error {
	st, err := s.store(kind)
	if err != nil {
		return err
	}
	return s.tx.Transact(ctx, func(ctx context.Context) error {
		merchant, err := s.merchants.GetByMerchantID(ctx, merchantID)
		if err != nil {
			return err
		}
		if err := st.Delete(ctx, merchantID); err != nil {
			return err
		}
		merchant.ApplyStepWrite(kind, domain.StepFlag{})
		return s.merchants.Update(ctx, merchant)
	})
}

// Status 返回入驻聚合状态。读取时对照实际步骤记录重算汇总，
// 发现不一致即回写修复，以步骤集合为准。
func (s *OnboardingService) Status(ctx context.Context, merchantID string) (*StatusDTO, error) {
	merchant, err := s.reconciled(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	summary := make(map[string]domain.StepFlag, domain.StepCount)
	for kind, flag := range merchant.Summary() {
		summary[kind.String()] = flag
	}

	dto := &StatusDTO{
		MerchantID:  merchant.MerchantID,
		Status:      string(merchant.Status),
		Message:     domain.StatusMessage(merchant.Status),
		Progress:    domain.ComputeProgress(merchant.CompletedCount()),
		StepSummary: summary,
	}
	if next := domain.NextIncompleteStep(merchant.CompletedFlags()); next != nil {
		dto.NextStep = &NextStepDTO{Step: next.String(), Title: next.Title()}
	}
	return dto, nil
}

// NextStep 返回按规范顺序的下一未完成步骤，全部完成时返回 nil
func (s *OnboardingService) NextStep(ctx context.Context, merchantID string) (*NextStepDTO, error) {
	merchant, err := s.reconciled(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if next := domain.NextIncompleteStep(merchant.CompletedFlags()); next != nil {
		return &NextStepDTO{Step: next.String(), Title: next.Title()}, nil
	}
	return nil, nil
}

// Timeline 返回按规范顺序排列的步骤时间线
func (s *OnboardingService) Timeline(ctx context.Context, merchantID string) (*TimelineDTO, error) {
	merchant, err := s.reconciled(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	dto := &TimelineDTO{
		MerchantID: merchant.MerchantID,
		Status:     string(merchant.Status),
		Steps:      make([]TimelineEntryDTO, 0, domain.StepCount),
	}
	for _, kind := range domain.StepOrder() {
		flag := merchant.StepFlag(kind)
		dto.Steps = append(dto.Steps, TimelineEntryDTO{
			Step:      kind.String(),
			Title:     kind.Title(),
			Completed: flag.Completed,
			Label:     flag.Label,
			FileURL:   flag.FileURL,
		})
	}
	return dto, nil
}

// reconciled 读取商户并按实际步骤记录修复汇总与状态
func (s *OnboardingService) reconciled(ctx context.Context, merchantID string) (*identity.Merchant, error) {
	merchant, err := s.merchants.GetByMerchantID(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	live := make(map[domain.StepKind]domain.StepFlag, domain.StepCount)
	for _, kind := range domain.StepOrder() {
		st, err := s.store(kind)
		if err != nil {
			return nil, err
		}
		rec, err := st.Get(ctx, merchantID)
		if errors.Is(err, apperr.ErrNotFound) {
			live[kind] = domain.StepFlag{}
			continue
		}
		if err != nil {
			return nil, err
		}
		live[kind] = rec.Flag()
	}

	stale := false
	for _, kind := range domain.StepOrder() {
		// 整个条目对比，标签和文件地址过期同样需要修复
		if merchant.StepFlag(kind) != live[kind] {
			stale = true
			break
		}
	}
	if !stale {
		return merchant, nil
	}

	for _, kind := range domain.StepOrder() {
		merchant.SetStepFlag(kind, live[kind])
	}
	merchant.Status = domain.NextStatus(merchant.Status, merchant.CompletedCount())
	if err := s.merchants.Update(ctx, merchant); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.SummaryRepairs.Inc()
	}
	logger.Warn(ctx, "step summary repaired from live records", "merchant_id", merchantID, "status", merchant.Status)
	return merchant, nil
}

// Approve 审批通过，无前置条件，任何状态都可直接通过
func (s *OnboardingService) Approve(ctx context.Context, merchantID, decidedBy, notes string) error {
	merchant, err := s.merchants.GetByMerchantID(ctx, merchantID)
	if err != nil {
		return err
	}
	merchant.Status = domain.StatusApproved
	if err := s.merchants.Update(ctx, merchant); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.Decisions.WithLabelValues("approved").Inc()
	}
	s.publish(ctx, "onboarding.decision", merchantID, domain.MerchantApprovedEvent{
		MerchantID: merchantID,
		DecidedBy:  decidedBy,
		Notes:      notes,
		Timestamp:  time.Now(),
	})
	logger.Info(ctx, "merchant approved", "merchant_id", merchantID, "decided_by", decidedBy)
	return nil
}

// Reject 审批拒绝，必须给出原因
func (s *OnboardingService) Reject(ctx context.Context, merchantID, reason, decidedBy, notes string) error {
	if strings.TrimSpace(reason) == "" {
		return apperr.New(apperr.KindValidation, "Rejection reason is required")
	}
	merchant, err := s.merchants.GetByMerchantID(ctx, merchantID)
	if err != nil {
		return err
	}
	merchant.Status = domain.StatusRejected
	if err := s.merchants.Update(ctx, merchant); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.Decisions.WithLabelValues("rejected").Inc()
	}
	s.publish(ctx, "onboarding.decision", merchantID, domain.MerchantRejectedEvent{
		MerchantID: merchantID,
		Reason:     reason,
		DecidedBy:  decidedBy,
		Notes:      notes,
		Timestamp:  time.Now(),
	})
	logger.Info(ctx, "merchant rejected", "merchant_id", merchantID, "decided_by", decidedBy, "reason", reason)
	return nil
}

// Reset 管理员重置：删除全部步骤记录并回到初始状态
func (s *OnboardingService) Reset(ctx context.Context, merchantID, resetBy string) error {
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		merchant, err := s.merchants.GetByMerchantID(ctx, merchantID)
		if err != nil {
			return err
		}
		for _, kind := range domain.StepOrder() {
			st, err := s.store(kind)
			if err != nil {
				return err
			}
			if err := st.Delete(ctx, merchantID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
				return err
			}
		}
		merchant.ResetSteps()
		return s.merchants.Update(ctx, merchant)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, "onboarding.reset", merchantID, domain.OnboardingResetEvent{
		MerchantID: merchantID,
		ResetBy:    resetBy,
		Timestamp:  time.Now(),
	})
	logger.Info(ctx, "onboarding reset", "merchant_id", merchantID, "reset_by", resetBy)
	return nil
}

func (s *OnboardingService) publish(ctx context.Context, topic, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		logger.Warn(ctx, "failed to publish event", "topic", topic, "key", key, "error", err)
	}
}
