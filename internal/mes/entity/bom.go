package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bom BOM头。(tenant, code, version) 唯一，同一code下可存多个版本。
type Bom struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	TenantID      string     `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_boms_tenant_code_version,priority:1"`
	Code          string     `json:"code" gorm:"size:64;not null;uniqueIndex:idx_boms_tenant_code_version,priority:2"`
	Version       string     `json:"version" gorm:"size:32;not null;uniqueIndex:idx_boms_tenant_code_version,priority:3"`
	Name          string     `json:"name" gorm:"size:200;not null"`
	ProductID     string     `json:"product_id" gorm:"size:36;not null;index"`
	EffectiveFrom *time.Time `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
	Remarks       string     `json:"remarks" gorm:"type:text"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedBy     string     `json:"created_by" gorm:"size:36"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// 关联
	Product *Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Details []BomDetail `json:"details,omitempty" gorm:"foreignKey:BomID"`
}

func (Bom) TableName() string {
	return "mes_boms"
}

// BomDetail BOM行项
type BomDetail struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	BomID       string          `json:"bom_id" gorm:"size:36;not null;index"`
	Sequence    int             `json:"sequence" gorm:"not null;default:0"`
	ComponentID string          `json:"component_id" gorm:"size:36;not null"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(14,4);not null"`
	ScrapRate   decimal.Decimal `json:"scrap_rate" gorm:"type:decimal(7,4);default:0"`
	Unit        string          `json:"unit" gorm:"size:20;not null;default:pcs"`
	Position    string          `json:"position" gorm:"size:64"`
	IsOptional  bool            `json:"is_optional" gorm:"not null;default:false"`
	Remarks     string          `json:"remarks" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// 关联
	Component *Product `json:"component,omitempty" gorm:"foreignKey:ComponentID"`
}

func (BomDetail) TableName() string {
	return "mes_bom_details"
}
