package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessRouting 工艺路线头。与BOM一样按 (tenant, code, version) 唯一。
type ProcessRouting struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	TenantID      string     `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_routings_tenant_code_version,priority:1"`
	Code          string     `json:"code" gorm:"size:64;not null;uniqueIndex:idx_routings_tenant_code_version,priority:2"`
	Version       string     `json:"version" gorm:"size:32;not null;uniqueIndex:idx_routings_tenant_code_version,priority:3"`
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
	Product *Product      `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Steps   []RoutingStep `json:"steps,omitempty" gorm:"foreignKey:RoutingID"`
}

func (ProcessRouting) TableName() string {
	return "mes_process_routings"
}

// RoutingStep 工序步骤
type RoutingStep struct {
	ID           string          `json:"id" gorm:"primaryKey;size:36"`
	RoutingID    string          `json:"routing_id" gorm:"size:36;not null;index"`
	Sequence     int             `json:"sequence" gorm:"not null;default:0"`
	ProcessCode  string          `json:"process_code" gorm:"size:64;not null"`
	ProcessName  string          `json:"process_name" gorm:"size:128;not null"`
	WorkCenter   string          `json:"work_center" gorm:"size:64"`
	SetupMinutes decimal.Decimal `json:"setup_minutes" gorm:"type:decimal(10,2);default:0"`
	CycleMinutes decimal.Decimal `json:"cycle_minutes" gorm:"type:decimal(10,2);default:0"`
	IsInspection bool            `json:"is_inspection" gorm:"not null;default:false"`
	Remarks      string          `json:"remarks" gorm:"type:text"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (RoutingStep) TableName() string {
	return "mes_routing_steps"
}
