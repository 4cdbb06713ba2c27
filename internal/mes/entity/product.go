package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product 产品/物料主数据
type Product struct {
	ID           string          `json:"id" gorm:"primaryKey;size:36"`
	TenantID     string          `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_products_tenant_code,priority:1"`
	Code         string          `json:"code" gorm:"size:64;not null;uniqueIndex:idx_products_tenant_code,priority:2"`
	Name         string          `json:"name" gorm:"size:200;not null"`
	Category     string          `json:"category" gorm:"size:64"`
	Unit         string          `json:"unit" gorm:"size:20;not null;default:pcs"`
	Spec         string          `json:"spec" gorm:"size:256"`
	StandardCost decimal.Decimal `json:"standard_cost" gorm:"type:decimal(14,4);default:0"`
	SafetyStock  decimal.Decimal `json:"safety_stock" gorm:"type:decimal(14,4);default:0"`
	Remarks      string          `json:"remarks" gorm:"type:text"`
	IsActive     bool            `json:"is_active" gorm:"not null;default:true"`
	CreatedBy    string          `json:"created_by" gorm:"size:36"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "mes_products"
}

// Lot 批次。追溯生产或来料的一个批量，可通过ParentLotID串联谱系。
type Lot struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	TenantID    string          `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_lots_tenant_code,priority:1"`
	Code        string          `json:"code" gorm:"size:64;not null;uniqueIndex:idx_lots_tenant_code,priority:2"`
	ProductID   string          `json:"product_id" gorm:"size:36;not null;index"`
	WorkOrderID string          `json:"work_order_id" gorm:"size:36;index"`
	PartnerID   string          `json:"partner_id" gorm:"size:36"` // 来料批次对应供应商
	ParentLotID string          `json:"parent_lot_id" gorm:"size:36;index"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(14,4);not null;default:0"`
	Unit        string          `json:"unit" gorm:"size:20;not null;default:pcs"`
	ProducedAt  *time.Time      `json:"produced_at"`
	ExpiresAt   *time.Time      `json:"expires_at"`
	Remarks     string          `json:"remarks" gorm:"type:text"`
	IsActive    bool            `json:"is_active" gorm:"not null;default:true"`
	CreatedBy   string          `json:"created_by" gorm:"size:36"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// 关联
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (Lot) TableName() string {
	return "mes_lots"
}
