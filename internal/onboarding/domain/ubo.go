package domain

import (
	"gorm.io/gorm"
)

// BeneficialOwner 单个最终受益人
type BeneficialOwner struct {
	FullName           string   `json:"fullName"`
	Nationality        string   `json:"nationality"`
	DateOfBirth        string   `json:"dateOfBirth"`
	ResidentialAddress string   `json:"residentialAddress"`
	OwnershipPercent   float64  `json:"percentageOwnership"`
	SourceOfFunds      []string `json:"sourceOfFunds"`
	PEP                bool     `json:"pep"`
	PEPDetails         string   `json:"pepDetails"`
}

// BeneficialOwnership 最终受益人步骤实体，持有受益人列表
type BeneficialOwnership struct {
	gorm.Model
	MerchantID string `gorm:"column:merchant_id;type:varchar(64);uniqueIndex;not null" json:"merchantid"`
	Completed  bool   `gorm:"column:completed;not null;default:false" json:"completed"`

	Owners []BeneficialOwner `gorm:"column:owners;serializer:json" json:"owners"`

	FileURL string `gorm:"column:file_url;type:varchar(512)" json:"fileUrl"`
}

// TableName 表名
func (BeneficialOwnership) TableName() string { return "beneficial_ownership" }

// Kind 所属步骤
func (BeneficialOwnership) Kind() StepKind { return StepUBO }

// Merchant 所属商户
func (u *BeneficialOwnership) Merchant() string { return u.MerchantID }

// Flag 汇总条目，标题取首位受益人姓名
func (u *BeneficialOwnership) Flag() StepFlag {
	label := ""
	if len(u.Owners) > 0 {
		label = u.Owners[0].FullName
	}
	return StepFlag{Label: label, FileURL: u.FileURL, Completed: u.Completed}
}
