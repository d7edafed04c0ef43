package application

import (
	"time"

	"github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	onboarding "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
)

// MerchantDTO 商户对外视图，不包含密码散列
type MerchantDTO struct {
	MerchantID  string                                      `json:"merchantid"`
	FullName    string                                      `json:"fullname"`
	Email       string                                      `json:"email"`
	Phone       string                                      `json:"phone"`
	Location    string                                      `json:"location"`
	Role        string                                      `json:"role"`
	Status      string                                      `json:"onboardingStatus"`
	StepSummary map[string]onboarding.StepFlag              `json:"stepSummary"`
	CreatedAt   time.Time                                   `json:"createdAt"`
	UpdatedAt   time.Time                                   `json:"updatedAt"`
}

// AuthResultDTO 注册登录的返回结果
type AuthResultDTO struct {
	Token    string      `json:"token"`
	Merchant MerchantDTO `json:"user"`
}

func toMerchantDTO(m *domain.Merchant) MerchantDTO {
	summary := make(map[string]onboarding.StepFlag, onboarding.StepCount)
	for kind, flag := range m.Summary() {
		summary[kind.String()] = flag
	}
	return MerchantDTO{
		MerchantID:  m.MerchantID,
		FullName:    m.FullName,
		Email:       m.Email,
		Phone:       m.Phone,
		Location:    m.Location,
		Role:        m.Role,
		Status:      string(m.Status),
		StepSummary: summary,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
