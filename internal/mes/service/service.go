package service

import (
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrInvalidState 当前状态不允许该操作
	ErrInvalidState = errors.New("invalid state for operation")
	// ErrInvalidStatusTransition 状态流转不合法
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrValidation 请求数据不满足前置条件
	ErrValidation = errors.New("validation failed")
)

// Services MES服务集合
type Services struct {
	User        *UserService
	Role        *RoleService
	Site        *SiteService
	Department  *DepartmentService
	Partner     *PartnerService
	Product     *ProductService
	Lot         *LotService
	Bom         *BomService
	Routing     *RoutingService
	WorkOrder   *WorkOrderService
	WorkResult  *WorkResultService
	Inspection  *InspectionService
	Gauge       *GaugeService
	Maintenance *MaintenanceService
	ActivityLog *ActivityLogService
	Dashboard   *DashboardService
	Export      *ExportService
	Attachment  *AttachmentService
}

// NewServices 创建MES服务集合。rdb与mc可为nil，对应功能退化为直连。
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, mc *minio.Client, bucket string) *Services {
	activityLog := NewActivityLogService(repos.ActivityLog)
	dashboard := NewDashboardService(repos.WorkOrder, repos.Inspection, repos.WorkResult, rdb)

	return &Services{
		User:        NewUserService(repos.User, repos.Role),
		Role:        NewRoleService(repos.Role),
		Site:        NewSiteService(repos.Site),
		Department:  NewDepartmentService(repos.Department, repos.Site),
		Partner:     NewPartnerService(repos.Partner),
		Product:     NewProductService(repos.Product),
		Lot:         NewLotService(repos.Lot, repos.Product),
		Bom:         NewBomService(repos.Bom, repos.Product, activityLog),
		Routing:     NewRoutingService(repos.Routing, repos.Product, activityLog),
		WorkOrder:   NewWorkOrderService(repos.WorkOrder, repos.Product, activityLog, dashboard, db),
		WorkResult:  NewWorkResultService(repos.WorkResult, repos.WorkOrder, activityLog, dashboard, db),
		Inspection:  NewInspectionService(repos.Inspection, activityLog, dashboard),
		Gauge:       NewGaugeService(repos.Gauge, db),
		Maintenance: NewMaintenanceService(repos.Maintenance),
		ActivityLog: activityLog,
		Dashboard:   dashboard,
		Export:      NewExportService(repos.WorkResult, repos.WorkOrder),
		Attachment:  NewAttachmentService(repos.Attachment, mc, bucket),
	}
}
