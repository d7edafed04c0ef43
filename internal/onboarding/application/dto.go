package application

import (
	"github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
)

// NextStepDTO 下一未完成步骤
type NextStepDTO struct {
	Step  string `json:"step"`
	Title string `json:"title"`
}

// StatusDTO 入驻状态聚合视图
type StatusDTO struct {
	MerchantID  string                     `json:"merchantid"`
	Status      string                     `json:"onboardingStatus"`
	Message     string                     `json:"message"`
	Progress    domain.Progress            `json:"progress"`
	StepSummary map[string]domain.StepFlag `json:"stepSummary"`
	NextStep    *NextStepDTO               `json:"nextStep"`
}

// TimelineEntryDTO 时间线上的单个步骤
type TimelineEntryDTO struct {
	Step      string `json:"step"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Label     string `json:"label,omitempty"`
	FileURL   string `json:"fileUrl,omitempty"`
}

// TimelineDTO 按规范顺序排列的入驻时间线
type TimelineDTO struct {
	MerchantID string             `json:"merchantid"`
	Status     string             `json:"onboardingStatus"`
	Steps      []TimelineEntryDTO `json:"steps"`
}
