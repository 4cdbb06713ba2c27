package entity

import "time"

// Equipment 设备
type Equipment struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	TenantID     string    `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_equipments_tenant_code,priority:1"`
	Code         string    `json:"code" gorm:"size:64;not null;uniqueIndex:idx_equipments_tenant_code,priority:2"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	Model        string    `json:"model" gorm:"size:64"`
	SiteID       string    `json:"site_id" gorm:"size:36;index"`
	DepartmentID string    `json:"department_id" gorm:"size:36"`
	InstalledAt  *time.Time `json:"installed_at"`
	Remarks      string    `json:"remarks" gorm:"type:text"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedBy    string    `json:"created_by" gorm:"size:36"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Equipment) TableName() string {
	return "mes_equipments"
}

// 维修单类型
const (
	MaintenanceTypePreventive = "PREVENTIVE"
	MaintenanceTypeCorrective = "CORRECTIVE"
)

// MaintenanceOrder 维修/保养单，状态机与检验改进单一致
type MaintenanceOrder struct {
	ID          string       `json:"id" gorm:"primaryKey;size:36"`
	TenantID    string       `json:"tenant_id" gorm:"size:64;not null;index"`
	EquipmentID string       `json:"equipment_id" gorm:"size:36;not null;index"`
	Type        string       `json:"type" gorm:"size:20;not null;default:CORRECTIVE"`
	Status      ActionStatus `json:"status" gorm:"size:20;not null;default:OPEN"`
	AssigneeID  string       `json:"assignee_id" gorm:"size:36;index"`
	Description string       `json:"description" gorm:"type:text"`
	Result      string       `json:"result" gorm:"type:text"`
	DueDate     *time.Time   `json:"due_date"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedBy   string       `json:"created_by" gorm:"size:36"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (MaintenanceOrder) TableName() string {
	return "mes_maintenance_orders"
}
