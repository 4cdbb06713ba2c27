package entity

import "time"

// ActionStatus 处理单状态。检验改进单与设备维修单共用：
// OPEN → IN_PROGRESS → COMPLETED，只进不退，COMPLETED 为终态。
type ActionStatus string

const (
	ActionOpen       ActionStatus = "OPEN"
	ActionInProgress ActionStatus = "IN_PROGRESS"
	ActionCompleted  ActionStatus = "COMPLETED"
)

var actionTransitions = map[ActionStatus][]ActionStatus{
	ActionOpen:       {ActionInProgress},
	ActionInProgress: {ActionCompleted},
	ActionCompleted:  {},
}

// CanTransition 判断能否进入next。同状态视为无操作成功。
func (s ActionStatus) CanTransition(next ActionStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range actionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// 检验结果
const (
	InspectionResultPassed      = "PASSED"
	InspectionResultFailed      = "FAILED"
	InspectionResultConditional = "CONDITIONAL"
)

// Inspection 检验任务
type Inspection struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	TenantID    string     `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_inspections_tenant_code,priority:1"`
	Code        string     `json:"code" gorm:"size:64;not null;uniqueIndex:idx_inspections_tenant_code,priority:2"`
	Type        string     `json:"type" gorm:"size:32"` // INCOMING / IN_PROCESS / FINAL
	ProductID   string     `json:"product_id" gorm:"size:36;index"`
	LotID       string     `json:"lot_id" gorm:"size:36;index"`
	WorkOrderID string     `json:"work_order_id" gorm:"size:36;index"`
	PartnerID   string     `json:"partner_id" gorm:"size:36"`
	InspectorID string     `json:"inspector_id" gorm:"size:36"`
	Result      string     `json:"result" gorm:"size:20"`
	InspectedAt *time.Time `json:"inspected_at"`
	Criteria    JSONB      `json:"criteria" gorm:"type:jsonb"`
	Remarks     string     `json:"remarks" gorm:"type:text"`
	CreatedBy   string     `json:"created_by" gorm:"size:36"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	Actions []InspectionAction `json:"actions,omitempty" gorm:"foreignKey:InspectionID"`
}

func (Inspection) TableName() string {
	return "mes_inspections"
}

// InspectionAction 检验改进单
type InspectionAction struct {
	ID           string       `json:"id" gorm:"primaryKey;size:36"`
	TenantID     string       `json:"tenant_id" gorm:"size:64;not null;index"`
	InspectionID string       `json:"inspection_id" gorm:"size:36;not null;index"`
	Status       ActionStatus `json:"status" gorm:"size:20;not null;default:OPEN"`
	AssigneeID   string       `json:"assignee_id" gorm:"size:36;index"`
	Description  string       `json:"description" gorm:"type:text"`
	Result       string       `json:"result" gorm:"type:text"`
	DueDate      *time.Time   `json:"due_date"`
	CompletedAt  *time.Time   `json:"completed_at"`
	CreatedBy    string       `json:"created_by" gorm:"size:36"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (InspectionAction) TableName() string {
	return "mes_inspection_actions"
}
