package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/db"
)

// stepStore 六类进件表单共用的 GORM 仓储，按步骤类型实例化
type stepStore struct {
	db        *gorm.DB
	kind      domain.StepKind
	newRecord func() domain.StepRecord
}

func (s *stepStore) StoreKind() domain.StepKind {
	return s.kind
}

func (s *stepStore) Get(ctx context.Context, merchantID string) (domain.StepRecord, error) {
	rec := s.newRecord()
	err := db.FromContext(ctx, s.db).WithContext(ctx).Where("merchant_id = ?", merchantID).First(rec).Error
	if err != nil {
		return nil, translateStep(err, s.kind)
	}
	return rec, nil
}

func (s *stepStore) Create(ctx context.Context, rec domain.StepRecord) error {
	if err := db.FromContext(ctx, s.db).WithContext(ctx).Create(rec).Error; err != nil {
		return translateStep(err, s.kind)
	}
	return nil
}

func (s *stepStore) Upsert(ctx context.Context, rec domain.StepRecord) error {
	err := db.FromContext(ctx, s.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "merchant_id"}},
			UpdateAll: true,
		}).
		Create(rec).Error
	if err != nil {
		return translateStep(err, s.kind)
	}
	return nil
}

func (s *stepStore) MarkComplete(ctx context.Context, merchantID string) error {
	result := db.FromContext(ctx, s.db).WithContext(ctx).
		Model(s.newRecord()).
		Where("merchant_id = ?", merchantID).
		Update("completed", true)
	if result.Error != nil {
		return translateStep(result.Error, s.kind)
	}
	if result.RowsAffected == 0 {
		return apperr.Newf(apperr.KindNotFound, "%s record not found", s.kind.Title())
	}
	return nil
}

func (s *stepStore) Delete(ctx context.Context, merchantID string) error {
	rec := s.newRecord()
	// 物理删除：merchant_id 上是普通唯一索引，软删除的墓碑会一直占住索引，
	// 导致重置后首次提交被误判为重复
	result := db.FromContext(ctx, s.db).WithContext(ctx).Unscoped().Where("merchant_id = ?", merchantID).Delete(rec)
	if result.Error != nil {
		return translateStep(result.Error, s.kind)
	}
	if result.RowsAffected == 0 {
		return apperr.Newf(apperr.KindNotFound, "%s record not found", s.kind.Title())
	}
	return nil
}

// NewStepRegistry 构建六个步骤仓储的注册表
func NewStepRegistry(database *gorm.DB) domain.StepRegistry {
	registry := make(domain.StepRegistry, domain.StepCount)
	constructors := map[domain.StepKind]func() domain.StepRecord{
		domain.StepCompany:    func() domain.StepRecord { return &domain.CompanyInfo{} },
		domain.StepUBO:        func() domain.StepRecord { return &domain.BeneficialOwnership{} },
		domain.StepPayment:    func() domain.StepRecord { return &domain.PaymentInfo{} },
		domain.StepSettlement: func() domain.StepRecord { return &domain.SettlementBankDetails{} },
		domain.StepRisk:       func() domain.StepRecord { return &domain.RiskManagement{} },
		domain.StepKYC:        func() domain.StepRecord { return &domain.KYCDocuments{} },
	}
	for kind, ctor := range constructors {
		registry[kind] = &stepStore{db: database, kind: kind, newRecord: ctor}
	}
	return registry
}

func translateStep(err error, kind domain.StepKind) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.KindNotFound, kind.Title()+" record not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.KindConflict, kind.Title()+" already submitted", err)
	default:
		return apperr.Wrap(apperr.KindInternal, "database error", err)
	}
}
