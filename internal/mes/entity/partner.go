package entity

import "time"

// 往来单位类型
const (
	PartnerTypeSupplier = "SUPPLIER"
	PartnerTypeCustomer = "CUSTOMER"
)

// Partner 往来单位（供应商/客户）
type Partner struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	TenantID     string    `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_partners_tenant_code,priority:1"`
	Code         string    `json:"code" gorm:"size:32;not null;uniqueIndex:idx_partners_tenant_code,priority:2"`
	Type         string    `json:"type" gorm:"size:16;not null;index"` // SUPPLIER / CUSTOMER
	Name         string    `json:"name" gorm:"size:200;not null"`
	ShortName    string    `json:"short_name" gorm:"size:64"`
	ContactName  string    `json:"contact_name" gorm:"size:64"`
	ContactPhone string    `json:"contact_phone" gorm:"size:32"`
	Email        string    `json:"email" gorm:"size:128"`
	Address      string    `json:"address" gorm:"size:256"`
	TaxID        string    `json:"tax_id" gorm:"size:64"`
	PaymentTerms string    `json:"payment_terms" gorm:"size:64"`
	Remarks      string    `json:"remarks" gorm:"type:text"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedBy    string    `json:"created_by" gorm:"size:36"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Partner) TableName() string {
	return "mes_partners"
}
