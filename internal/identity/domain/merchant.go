// Package domain 身份上下文领域层：商户/管理员账户聚合根
package domain

import (
	"gorm.io/gorm"

	onboarding "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
)

// 角色常量
const (
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// Merchant 账户聚合根。六个步骤的完成标志在此做去范式化缓存，
// 缓存只是投影，以各步骤集合的记录为准，读路径允许重算修复。
type Merchant struct {
	gorm.Model
	// MerchantID 商户标识，全局唯一，注册时生成
	MerchantID string `gorm:"column:merchant_id;type:varchar(64);uniqueIndex;not null" json:"merchantid"`
	// Role 角色：merchant 或 admin
	Role string `gorm:"column:role;type:varchar(20);not null;default:'merchant'" json:"role"`

	FullName     string `gorm:"column:full_name;type:varchar(100)" json:"fullname"`
	Email        string `gorm:"column:email;type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"column:phone;type:varchar(20);uniqueIndex;not null" json:"phonenumber"`
	Location     string `gorm:"column:location;type:varchar(100)" json:"location"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`

	// Status 入驻整体状态
	Status onboarding.OnboardingStatus `gorm:"column:onboarding_status;type:varchar(20);not null;default:'pending'" json:"onboardingStatus"`

	// 六个步骤的去范式化汇总
	Company    onboarding.StepFlag `gorm:"embedded;embeddedPrefix:company_" json:"companyinformation"`
	UBO        onboarding.StepFlag `gorm:"embedded;embeddedPrefix:ubo_" json:"ubo"`
	Payment    onboarding.StepFlag `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Settlement onboarding.StepFlag `gorm:"embedded;embeddedPrefix:settlement_" json:"settlementbank"`
	Risk       onboarding.StepFlag `gorm:"embedded;embeddedPrefix:risk_" json:"riskmanagement"`
	KYC        onboarding.StepFlag `gorm:"embedded;embeddedPrefix:kyc_" json:"kycdocs"`
}

// TableName 表名
func (Merchant) TableName() string { return "merchants" }

// NewMerchant 创建新账户，初始状态 pending，全部步骤未完成
func NewMerchant(merchantID, role, fullname, email, phone, location, passwordHash string) *Merchant {
	if role != RoleAdmin {
		role = RoleMerchant
	}
	return &Merchant{
		MerchantID:   merchantID,
		Role:         role,
		FullName:     fullname,
		Email:        email,
		Phone:        phone,
		Location:     location,
		PasswordHash: passwordHash,
		Status:       onboarding.StatusPending,
	}
}

// StepFlag 读取指定步骤的汇总条目
func (m *Merchant) StepFlag(kind onboarding.StepKind) onboarding.StepFlag {
	switch kind {
	case onboarding.StepCompany:
		return m.Company
	case onboarding.StepUBO:
		return m.UBO
	case onboarding.StepPayment:
		return m.Payment
	case onboarding.StepSettlement:
		return m.Settlement
	case onboarding.StepRisk:
		return m.Risk
	case onboarding.StepKYC:
		return m.KYC
	default:
		return onboarding.StepFlag{}
	}
}

// SetStepFlag 写入指定步骤的汇总条目
func (m *Merchant) SetStepFlag(kind onboarding.StepKind, flag onboarding.StepFlag) {
	switch kind {
	case onboarding.StepCompany:
		m.Company = flag
	case onboarding.StepUBO:
		m.UBO = flag
	case onboarding.StepPayment:
		m.Payment = flag
	case onboarding.StepSettlement:
		m.Settlement = flag
	case onboarding.StepRisk:
		m.Risk = flag
	case onboarding.StepKYC:
		m.KYC = flag
	}
}

// Summary 返回六个步骤的汇总条目，按规范顺序
func (m *Merchant) Summary() map[onboarding.StepKind]onboarding.StepFlag {
	out := make(map[onboarding.StepKind]onboarding.StepFlag, onboarding.StepCount)
	for _, k := range onboarding.StepOrder() {
		out[k] = m.StepFlag(k)
	}
	return out
}

// CompletedFlags 返回六个步骤的完成标志
func (m *Merchant) CompletedFlags() map[onboarding.StepKind]bool {
	out := make(map[onboarding.StepKind]bool, onboarding.StepCount)
	for _, k := range onboarding.StepOrder() {
		out[k] = m.StepFlag(k).Completed
	}
	return out
}

// CompletedCount 已完成步骤数
func (m *Merchant) CompletedCount() int {
	n := 0
	for _, k := range onboarding.StepOrder() {
		if m.StepFlag(k).Completed {
			n++
		}
	}
	return n
}

// ApplyStepWrite 步骤写入后的聚合更新：写汇总条目并按状态机推导整体状态。
// 幂等，可在修复路径重复应用。
func (m *Merchant) ApplyStepWrite(kind onboarding.StepKind, flag onboarding.StepFlag) {
	m.SetStepFlag(kind, flag)
	m.Status = onboarding.NextStatus(m.Status, m.CompletedCount())
}

// ResetSteps 管理员重置：清空全部汇总并回到 pending
func (m *Merchant) ResetSteps() {
	for _, k := range onboarding.StepOrder() {
		m.SetStepFlag(k, onboarding.StepFlag{})
	}
	m.Status = onboarding.StatusPending
}
