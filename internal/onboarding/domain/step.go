// Package domain 商户入驻流程领域层
// 1) 定义六个合规步骤的封闭枚举与固定顺序
// 2) 定义入驻整体状态机与进度计算
// 3) 定义各步骤表单实体
package domain

import (
	"math"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
)

// StepKind 入驻步骤类型，封闭枚举，顺序即提交顺序
type StepKind int8

const (
	StepCompany    StepKind = 1 // 公司信息
	StepUBO        StepKind = 2 // 最终受益人
	StepPayment    StepKind = 3 // 支付与处理
	StepSettlement StepKind = 4 // 结算银行
	StepRisk       StepKind = 5 // 风险管理
	StepKYC        StepKind = 6 // KYC 材料
)

// StepCount 步骤总数
const StepCount = 6

// StepOrder 固定的规范顺序
func StepOrder() [StepCount]StepKind {
	return [StepCount]StepKind{StepCompany, StepUBO, StepPayment, StepSettlement, StepRisk, StepKYC}
}

// String 返回步骤的资源名，用于路由与事件
func (k StepKind) String() string {
	switch k {
	case StepCompany:
		return "companyinformation"
	case StepUBO:
		return "ubo"
	case StepPayment:
		return "payment"
	case StepSettlement:
		return "settlementbank"
	case StepRisk:
		return "riskmanagement"
	case StepKYC:
		return "kycdocs"
	default:
		return "unknown"
	}
}

// Title 返回步骤的展示名称
func (k StepKind) Title() string {
	switch k {
	case StepCompany:
		return "Company Information"
	case StepUBO:
		return "UBO Information"
	case StepPayment:
		return "Payment Processing"
	case StepSettlement:
		return "Settlement Bank Details"
	case StepRisk:
		return "Risk Management"
	case StepKYC:
		return "KYC Documents"
	default:
		return "Unknown"
	}
}

// ParseStepKind 解析资源名为步骤类型
func ParseStepKind(name string) (StepKind, error) {
	for _, k := range StepOrder() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, apperr.Newf(apperr.KindValidation, "Invalid step name")
}

// StepFlag 单个步骤的去范式化汇总：标题值、附件地址、完成标志
type StepFlag struct {
	Label     string `gorm:"column:label;type:varchar(255)" json:"label"`
	FileURL   string `gorm:"column:file_url;type:varchar(512)" json:"fileUrl"`
	Completed bool   `gorm:"column:completed;not null;default:false" json:"completed"`
}

// StepRecord 步骤表单实体的统一能力
type StepRecord interface {
	// Kind 所属步骤
	Kind() StepKind
	// Merchant 所属商户标识
	Merchant() string
	// Flag 生成写回商户汇总的条目
	Flag() StepFlag
}

// Progress 入驻进度
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ComputeProgress 按已完成步骤数计算进度
func ComputeProgress(completed int) Progress {
	return Progress{
		Completed:  completed,
		Total:      StepCount,
		Percentage: int(math.Round(float64(completed) / float64(StepCount) * 100)),
	}
}

// NextIncompleteStep 按规范顺序返回第一个未完成的步骤，全部完成时返回 nil
func NextIncompleteStep(flags map[StepKind]bool) *StepKind {
	for _, k := range StepOrder() {
		if !flags[k] {
			kind := k
			return &kind
		}
	}
	return nil
}
