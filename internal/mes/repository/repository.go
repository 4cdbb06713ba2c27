package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateCode 租户内业务编码重复
	ErrDuplicateCode = errors.New("duplicate code")
)

// Repositories MES仓库集合
type Repositories struct {
	User        *UserRepository
	Role        *RoleRepository
	Site        *SiteRepository
	Department  *DepartmentRepository
	Partner     *PartnerRepository
	Product     *ProductRepository
	Lot         *LotRepository
	Bom         *BomRepository
	Routing     *RoutingRepository
	WorkOrder   *WorkOrderRepository
	WorkResult  *WorkResultRepository
	Inspection  *InspectionRepository
	Gauge       *GaugeRepository
	Maintenance *MaintenanceRepository
	ActivityLog *ActivityLogRepository
	Attachment  *AttachmentRepository
}

// NewRepositories 创建MES仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Role:        NewRoleRepository(db),
		Site:        NewSiteRepository(db),
		Department:  NewDepartmentRepository(db),
		Partner:     NewPartnerRepository(db),
		Product:     NewProductRepository(db),
		Lot:         NewLotRepository(db),
		Bom:         NewBomRepository(db),
		Routing:     NewRoutingRepository(db),
		WorkOrder:   NewWorkOrderRepository(db),
		WorkResult:  NewWorkResultRepository(db),
		Inspection:  NewInspectionRepository(db),
		Gauge:       NewGaugeRepository(db),
		Maintenance: NewMaintenanceRepository(db),
		ActivityLog: NewActivityLogRepository(db),
		Attachment:  NewAttachmentRepository(db),
	}
}
