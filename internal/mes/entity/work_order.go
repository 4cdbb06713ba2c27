package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderStatus 工单状态
type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "PENDING"
	WorkOrderReady      WorkOrderStatus = "READY"
	WorkOrderInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderCompleted  WorkOrderStatus = "COMPLETED"
	WorkOrderCancelled  WorkOrderStatus = "CANCELLED"
)

// workOrderTransitions 当前状态 → 允许进入的状态。
// COMPLETED 为终态；取消只要未完工都允许，包括尚未开工的工单。
var workOrderTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	WorkOrderPending:    {WorkOrderReady, WorkOrderInProgress, WorkOrderCancelled},
	WorkOrderReady:      {WorkOrderInProgress, WorkOrderCancelled},
	WorkOrderInProgress: {WorkOrderCompleted, WorkOrderCancelled},
	WorkOrderCompleted:  {},
	WorkOrderCancelled:  {WorkOrderCancelled},
}

// CanTransition 判断工单能否从当前状态进入next
func (s WorkOrderStatus) CanTransition(next WorkOrderStatus) bool {
	for _, allowed := range workOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// WorkOrder 生产工单。Actual/Good/Defect 三个数量为派生字段，
// 只由工作结果汇总重算写入，调用方不得直接设置。
type WorkOrder struct {
	ID           string          `json:"id" gorm:"primaryKey;size:36"`
	TenantID     string          `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_work_orders_tenant_code,priority:1"`
	Code         string          `json:"code" gorm:"size:64;not null;uniqueIndex:idx_work_orders_tenant_code,priority:2"`
	ProductID    string          `json:"product_id" gorm:"size:36;not null;index"`
	BomID        string          `json:"bom_id" gorm:"size:36"`
	RoutingID    string          `json:"routing_id" gorm:"size:36"`
	SiteID       string          `json:"site_id" gorm:"size:36;index"`
	Status       WorkOrderStatus `json:"status" gorm:"size:20;not null;default:PENDING"`
	PlannedQty   decimal.Decimal `json:"planned_qty" gorm:"type:decimal(14,4);not null"`
	ActualQty    decimal.Decimal `json:"actual_qty" gorm:"type:decimal(14,4);not null;default:0"`
	GoodQty      decimal.Decimal `json:"good_qty" gorm:"type:decimal(14,4);not null;default:0"`
	DefectQty    decimal.Decimal `json:"defect_qty" gorm:"type:decimal(14,4);not null;default:0"`
	PlannedStart *time.Time      `json:"planned_start"`
	PlannedEnd   *time.Time      `json:"planned_end"`
	ActualStart  *time.Time      `json:"actual_start"`
	ActualEnd    *time.Time      `json:"actual_end"`
	Remarks      string          `json:"remarks" gorm:"type:text"`
	CreatedBy    string          `json:"created_by" gorm:"size:36"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// 关联
	Product *Product     `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Results []WorkResult `json:"results,omitempty" gorm:"foreignKey:WorkOrderID"`
}

func (WorkOrder) TableName() string {
	return "mes_work_orders"
}

// WorkResult 报工记录。每次增删改都会触发所属工单数量重算。
type WorkResult struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	TenantID    string          `json:"tenant_id" gorm:"size:64;not null;index"`
	WorkOrderID string          `json:"work_order_id" gorm:"size:36;not null;index"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(14,4);not null"`
	GoodQty     decimal.Decimal `json:"good_qty" gorm:"type:decimal(14,4);not null;default:0"`
	DefectQty   decimal.Decimal `json:"defect_qty" gorm:"type:decimal(14,4);not null;default:0"`
	WorkerID    string          `json:"worker_id" gorm:"size:36;index"`
	LotID       string          `json:"lot_id" gorm:"size:36"`
	ReportedAt  time.Time       `json:"reported_at"`
	Remarks     string          `json:"remarks" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (WorkResult) TableName() string {
	return "mes_work_results"
}
