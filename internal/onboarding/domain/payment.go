package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethods 期望支持的支付方式
type PaymentMethods struct {
	Cards       bool   `gorm:"column:cards;not null;default:false" json:"cards"`
	MobileMoney bool   `gorm:"column:mobile_money;not null;default:false" json:"mobileMoney"`
	Other       string `gorm:"column:other;type:varchar(255)" json:"other"`
}

// PaymentInfo 支付与处理步骤实体，金额字段使用定点数避免浮点误差
type PaymentInfo struct {
	gorm.Model
	MerchantID string `gorm:"column:merchant_id;type:varchar(64);uniqueIndex;not null" json:"merchantid"`
	Completed  bool   `gorm:"column:completed;not null;default:false" json:"completed"`

	RequiredCurrencies []string `gorm:"column:required_currencies;serializer:json" json:"requiredCurrencies"`

	ExpectedMonthlyVolumeUSD decimal.Decimal `gorm:"column:expected_monthly_volume_usd;type:decimal(20,2);not null;default:0" json:"expectedMonthlyVolumeUSD"`
	ExpectedMonthlyTxCount   int64           `gorm:"column:expected_monthly_tx_count;not null;default:0" json:"expectedMonthlyTxCount"`
	AvgTxSizeUSD             decimal.Decimal `gorm:"column:avg_tx_size_usd;type:decimal(20,2);not null;default:0" json:"avgTxSizeUSD"`

	Methods PaymentMethods `gorm:"embedded;embeddedPrefix:method_" json:"paymentMethods"`

	ChargebackRefundRate string `gorm:"column:chargeback_refund_rate;type:varchar(32)" json:"chargebackRefundRate"`

	FileURL string `gorm:"column:file_url;type:varchar(512)" json:"fileUrl"`
}

// TableName 表名
func (PaymentInfo) TableName() string { return "payment_info" }

// Kind 所属步骤
func (PaymentInfo) Kind() StepKind { return StepPayment }

// Merchant 所属商户
func (p *PaymentInfo) Merchant() string { return p.MerchantID }

// Flag 汇总条目
func (p *PaymentInfo) Flag() StepFlag {
	label := ""
	if !p.ExpectedMonthlyVolumeUSD.IsZero() {
		label = p.ExpectedMonthlyVolumeUSD.String() + " USD/month"
	}
	return StepFlag{Label: label, FileURL: p.FileURL, Completed: p.Completed}
}
