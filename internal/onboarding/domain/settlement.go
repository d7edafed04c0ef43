package domain

import (
	"gorm.io/gorm"
)

// SettlementBank 单个结算银行账户
type SettlementBank struct {
	BankName      string `json:"bankName"`
	Branch        string `json:"branch"`
	SwiftCode     string `json:"swiftCode"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	Currency      string `json:"currency"`
}

// SettlementBankDetails 结算银行步骤实体，持有账户列表
type SettlementBankDetails struct {
	gorm.Model
	MerchantID string `gorm:"column:merchant_id;type:varchar(64);uniqueIndex;not null" json:"merchantid"`
	Completed  bool   `gorm:"column:completed;not null;default:false" json:"completed"`

	Banks []SettlementBank `gorm:"column:banks;serializer:json" json:"banks"`

	FileURL string `gorm:"column:file_url;type:varchar(512)" json:"fileUrl"`
}

// TableName 表名
func (SettlementBankDetails) TableName() string { return "settlement_bank_details" }

// Kind 所属步骤
func (SettlementBankDetails) Kind() StepKind { return StepSettlement }

// Merchant 所属商户
func (s *SettlementBankDetails) Merchant() string { return s.MerchantID }

// Flag 汇总条目，标题取首个银行名
func (s *SettlementBankDetails) Flag() StepFlag {
	label := ""
	if len(s.Banks) > 0 {
		label = s.Banks[0].BankName
	}
	return StepFlag{Label: label, FileURL: s.FileURL, Completed: s.Completed}
}
