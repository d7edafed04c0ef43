package domain

import (
	"gorm.io/gorm"
)

// KYCDocuments KYC 材料步骤实体，字段为各材料的存储地址
type KYCDocuments struct {
	gorm.Model
	MerchantID string `gorm:"column:merchant_id;type:varchar(64);uniqueIndex;not null" json:"merchantid"`
	Completed  bool   `gorm:"column:completed;not null;default:false" json:"completed"`

	CertIncorporation     string   `gorm:"column:cert_incorporation;type:varchar(512)" json:"certIncorporation"`
	CR2Partnership        string   `gorm:"column:cr2_partnership;type:varchar(512)" json:"cr2Partnership"`
	CR2Shareholders       string   `gorm:"column:cr2_shareholders;type:varchar(512)" json:"cr2Shareholders"`
	TaxCertificate        string   `gorm:"column:tax_certificate;type:varchar(512)" json:"taxCertificate"`
	BankStatement         string   `gorm:"column:bank_statement;type:varchar(512)" json:"bankStatement"`
	PassportIDs           string   `gorm:"column:passport_ids;type:varchar(512)" json:"passportIds"`
	ShareholderPassportID string   `gorm:"column:shareholder_passport_id;type:varchar(512)" json:"shareholderPassportId"`
	WebsiteIPs            []string `gorm:"column:website_ips;serializer:json" json:"websiteIpAddress"`
	ProofOfDomain         string   `gorm:"column:proof_of_domain;type:varchar(512)" json:"proofOfDomain"`
	ProofOfAddress        string   `gorm:"column:proof_of_address;type:varchar(512)" json:"proofOfAddress"`
	PEPForm               string   `gorm:"column:pep_form;type:varchar(512)" json:"pepForm"`
}

// TableName 表名
func (KYCDocuments) TableName() string { return "kyc_documents" }

// Kind 所属步骤
func (KYCDocuments) Kind() StepKind { return StepKYC }

// Merchant 所属商户
func (k *KYCDocuments) Merchant() string { return k.MerchantID }

// Flag 汇总条目
func (k *KYCDocuments) Flag() StepFlag {
	return StepFlag{Label: k.CertIncorporation, FileURL: k.CertIncorporation, Completed: k.Completed}
}
