package domain

import (
	"time"

	"gorm.io/gorm"
)

// ComplianceOfficer 合规负责人
type ComplianceOfficer struct {
	FullName  string `gorm:"column:full_name;type:varchar(100)" json:"fullname"`
	Telephone string `gorm:"column:telephone;type:varchar(20)" json:"telephonenumber"`
	Email     string `gorm:"column:email;type:varchar(100)" json:"email"`
}

// Introducer 引荐人签署信息
type Introducer struct {
	Name      string     `gorm:"column:name;type:varchar(100)" json:"name"`
	Position  string     `gorm:"column:position;type:varchar(100)" json:"position"`
	Date      *time.Time `gorm:"column:date" json:"date"`
	Signature string     `gorm:"column:signature;type:varchar(255)" json:"signature"`
}

// RiskManagement 风险管理步骤实体
type RiskManagement struct {
	gorm.Model
	MerchantID string `gorm:"column:merchant_id;type:varchar(64);uniqueIndex;not null" json:"merchantid"`
	Completed  bool   `gorm:"column:completed;not null;default:false" json:"completed"`

	AMLPolicy bool              `gorm:"column:aml_policy;not null;default:false" json:"amlPolicy"`
	Officer   ComplianceOfficer `gorm:"embedded;embeddedPrefix:officer_" json:"officerDetails"`

	RegulatoryFineHistory bool   `gorm:"column:regulatory_fine_history;not null;default:false" json:"historyOfRegulatoryFine"`
	HeardAboutUs          string `gorm:"column:heard_about_us;type:varchar(255)" json:"heardAboutUs"`

	Introducer Introducer `gorm:"embedded;embeddedPrefix:introducer_" json:"introducer"`

	FileURL string `gorm:"column:file_url;type:varchar(512)" json:"fileUrl"`
}

// TableName 表名
func (RiskManagement) TableName() string { return "risk_management" }

// Kind 所属步骤
func (RiskManagement) Kind() StepKind { return StepRisk }

// Merchant 所属商户
func (r *RiskManagement) Merchant() string { return r.MerchantID }

// Flag 汇总条目，标题取合规负责人姓名
func (r *RiskManagement) Flag() StepFlag {
	return StepFlag{Label: r.Officer.FullName, FileURL: r.FileURL, Completed: r.Completed}
}
