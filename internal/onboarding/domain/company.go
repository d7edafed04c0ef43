package domain

import (
	"time"

	"gorm.io/gorm"
)

// ContactPerson 联系人
type ContactPerson struct {
	FullName string `gorm:"column:full_name;type:varchar(100)" json:"fullName"`
	Phone    string `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Email    string `gorm:"column:email;type:varchar(100)" json:"email"`
}

// LicenseInfo 牌照信息
type LicenseInfo struct {
	Number       string `gorm:"column:number;type:varchar(64)" json:"licenceNumber"`
	Type         string `gorm:"column:type;type:varchar(64)" json:"licenceType"`
	Jurisdiction string `gorm:"column:jurisdiction;type:varchar(64)" json:"jurisdiction"`
}

// TargetCountry 目标市场占比
type TargetCountry struct {
	Region  string  `json:"region"`
	Percent float64 `json:"percent"`
}

// CompanyInfo 公司信息步骤实体
type CompanyInfo struct {
	gorm.Model
	MerchantID string `gorm:"column:merchant_id;type:varchar(64);uniqueIndex;not null" json:"merchantid"`
	Completed  bool   `gorm:"column:completed;not null;default:false" json:"completed"`

	CompanyName            string     `gorm:"column:company_name;type:varchar(255);not null" json:"companyName"`
	MerchantURLs           string     `gorm:"column:merchant_urls;type:varchar(512)" json:"merchantUrls"`
	DateOfIncorporation    *time.Time `gorm:"column:date_of_incorporation" json:"dateOfIncorporation"`
	IncorporationNumber    string     `gorm:"column:incorporation_number;type:varchar(64)" json:"incorporationNumber"`
	CountryOfIncorporation string     `gorm:"column:country_of_incorporation;type:varchar(64)" json:"countryOfIncorporation"`
	CompanyEmail           string     `gorm:"column:company_email;type:varchar(100)" json:"companyEmail"`

	Contact ContactPerson `gorm:"embedded;embeddedPrefix:contact_" json:"contactPerson"`

	BusinessDescription string `gorm:"column:business_description;type:text" json:"businessDescription"`
	SourceOfFunds       string `gorm:"column:source_of_funds;type:varchar(255)" json:"sourceOfFunds"`
	Purpose             string `gorm:"column:purpose;type:varchar(255)" json:"purpose"`

	LicensingRequired bool        `gorm:"column:licensing_required;not null;default:false" json:"licensingRequired"`
	License           LicenseInfo `gorm:"embedded;embeddedPrefix:license_" json:"licenseInfo"`

	BankName  string `gorm:"column:bank_name;type:varchar(100)" json:"bankname"`
	SwiftCode string `gorm:"column:swift_code;type:varchar(32)" json:"swiftcode"`

	TargetCountries        []TargetCountry `gorm:"column:target_countries;serializer:json" json:"targetCountries"`
	TopCountries           []string        `gorm:"column:top_countries;serializer:json" json:"topCountries"`
	PreviouslyUsedGateways string          `gorm:"column:previously_used_gateways;type:varchar(255)" json:"previouslyUsedGateways"`

	FileURL string `gorm:"column:file_url;type:varchar(512)" json:"fileUrl"`
}

// TableName 表名
func (CompanyInfo) TableName() string { return "company_info" }

// Kind 所属步骤
func (CompanyInfo) Kind() StepKind { return StepCompany }

// Merchant 所属商户
func (c *CompanyInfo) Merchant() string { return c.MerchantID }

// Flag 汇总条目
func (c *CompanyInfo) Flag() StepFlag {
	return StepFlag{Label: c.CompanyName, FileURL: c.FileURL, Completed: c.Completed}
}
