package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WorkOrderService 工单服务
type WorkOrderService struct {
	repo        *repository.WorkOrderRepository
	productRepo *repository.ProductRepository
	activityLog *ActivityLogService
	dashboard   DashboardInvalidator
	db          *gorm.DB
}

func NewWorkOrderService(repo *repository.WorkOrderRepository, productRepo *repository.ProductRepository, activityLog *ActivityLogService, dashboard DashboardInvalidator, db *gorm.DB) *WorkOrderService {
	return &WorkOrderService{
		repo:        repo,
		productRepo: productRepo,
		activityLog: activityLog,
		dashboard:   dashboard,
		db:          db,
	}
}

func (s *WorkOrderService) invalidateDashboard(ctx context.Context, tenantID string) {
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, tenantID)
	}
}

// CreateWorkOrderRequest 创建工单请求
type CreateWorkOrderRequest struct {
	Code         string          `json:"code" binding:"required"`
	ProductID    string          `json:"product_id" binding:"required"`
	BomID        string          `json:"bom_id"`
	RoutingID    string          `json:"routing_id"`
	SiteID       string          `json:"site_id"`
	PlannedQty   decimal.Decimal `json:"planned_qty" binding:"required"`
	PlannedStart *time.Time      `json:"planned_start"`
	PlannedEnd   *time.Time      `json:"planned_end"`
	Remarks      string          `json:"remarks"`
}

// UpdateWorkOrderRequest 更新工单请求，nil字段保持不变
type UpdateWorkOrderRequest struct {
	BomID        *string          `json:"bom_id"`
	RoutingID    *string          `json:"routing_id"`
	SiteID       *string          `json:"site_id"`
	PlannedQty   *decimal.Decimal `json:"planned_qty"`
	PlannedStart *time.Time       `json:"planned_start"`
	PlannedEnd   *time.Time       `json:"planned_end"`
	Remarks      *string          `json:"remarks"`
}

// List 获取工单列表
func (s *WorkOrderService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.WorkOrder, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取工单详情
func (s *WorkOrderService) Get(ctx context.Context, tenantID, id string) (*entity.WorkOrder, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// GetByCode 按编码获取工单
func (s *WorkOrderService) GetByCode(ctx context.Context, tenantID, code string) (*entity.WorkOrder, error) {
	return s.repo.FindByCode(ctx, tenantID, code)
}

// Create 创建工单，初始状态PENDING，派生数量为零
func (s *WorkOrderService) Create(ctx context.Context, tenantID, userID string, req *CreateWorkOrderRequest) (*entity.WorkOrder, error) {
	if req.PlannedQty.Sign() <= 0 {
		return nil, fmt.Errorf("planned_qty must be positive: %w", ErrValidation)
	}

	if _, err := s.productRepo.FindByID(ctx, tenantID, req.ProductID); err != nil {
		return nil, fmt.Errorf("product %s: %w", req.ProductID, err)
	}

	exists, err := s.repo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("work order code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	wo := &entity.WorkOrder{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Code:         req.Code,
		ProductID:    req.ProductID,
		BomID:        req.BomID,
		RoutingID:    req.RoutingID,
		SiteID:       req.SiteID,
		Status:       entity.WorkOrderPending,
		PlannedQty:   req.PlannedQty,
		ActualQty:    decimal.Zero,
		GoodQty:      decimal.Zero,
		DefectQty:    decimal.Zero,
		PlannedStart: req.PlannedStart,
		PlannedEnd:   req.PlannedEnd,
		Remarks:      req.Remarks,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, wo); err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}

	s.activityLog.Record(ctx, tenantID, "work_order", wo.ID, wo.Code, "create", "", string(wo.Status), userID)
	s.invalidateDashboard(ctx, tenantID)
	return wo, nil
}

// Update 更新工单计划字段。派生数量与状态不在此处修改。
func (s *WorkOrderService) Update(ctx context.Context, tenantID, id string, req *UpdateWorkOrderRequest) (*entity.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.BomID != nil {
		wo.BomID = *req.BomID
	}
	if req.RoutingID != nil {
		wo.RoutingID = *req.RoutingID
	}
	if req.SiteID != nil {
		wo.SiteID = *req.SiteID
	}
	if req.PlannedQty != nil {
		if req.PlannedQty.Sign() <= 0 {
			return nil, fmt.Errorf("planned_qty must be positive: %w", ErrValidation)
		}
		wo.PlannedQty = *req.PlannedQty
	}
	if req.PlannedStart != nil {
		wo.PlannedStart = req.PlannedStart
	}
	if req.PlannedEnd != nil {
		wo.PlannedEnd = req.PlannedEnd
	}
	if req.Remarks != nil {
		wo.Remarks = *req.Remarks
	}

	if err := s.repo.Update(ctx, wo); err != nil {
		return nil, fmt.Errorf("update work order: %w", err)
	}
	return wo, nil
}

// Delete 删除工单
func (s *WorkOrderService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidateDashboard(ctx, tenantID)
	return nil
}

// Ready 备料完成：PENDING → READY
func (s *WorkOrderService) Ready(ctx context.Context, tenantID, id, userID string) (*entity.WorkOrder, error) {
	return s.transition(ctx, tenantID, id, userID, entity.WorkOrderReady, func(wo *entity.WorkOrder, now time.Time) {})
}

// Start 开工：PENDING/READY → IN_PROGRESS，记录实际开始时间
func (s *WorkOrderService) Start(ctx context.Context, tenantID, id, userID string) (*entity.WorkOrder, error) {
	return s.transition(ctx, tenantID, id, userID, entity.WorkOrderInProgress, func(wo *entity.WorkOrder, now time.Time) {
		wo.ActualStart = &now
	})
}

// Complete 完工：IN_PROGRESS → COMPLETED，记录实际结束时间
func (s *WorkOrderService) Complete(ctx context.Context, tenantID, id, userID string) (*entity.WorkOrder, error) {
	return s.transition(ctx, tenantID, id, userID, entity.WorkOrderCompleted, func(wo *entity.WorkOrder, now time.Time) {
		wo.ActualEnd = &now
	})
}

// Cancel 取消：除COMPLETED外任意状态 → CANCELLED
func (s *WorkOrderService) Cancel(ctx context.Context, tenantID, id, userID string) (*entity.WorkOrder, error) {
	return s.transition(ctx, tenantID, id, userID, entity.WorkOrderCancelled, func(wo *entity.WorkOrder, now time.Time) {})
}

// transition 单行读-改-写，整体在一个事务内完成
func (s *WorkOrderService) transition(ctx context.Context, tenantID, id, userID string, next entity.WorkOrderStatus, apply func(*entity.WorkOrder, time.Time)) (*entity.WorkOrder, error) {
	var updated *entity.WorkOrder

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wo entity.WorkOrder
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&wo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("work order %s: %w", id, repository.ErrNotFound)
			}
			return err
		}

		if !wo.Status.CanTransition(next) {
			return fmt.Errorf("work order %s: %s -> %s: %w", wo.Code, wo.Status, next, ErrInvalidState)
		}

		from := wo.Status
		now := time.Now()
		wo.Status = next
		apply(&wo, now)

		if err := tx.Omit("Product", "Results").Save(&wo).Error; err != nil {
			return fmt.Errorf("save work order: %w", err)
		}

		s.activityLog.Record(ctx, tenantID, "work_order", wo.ID, wo.Code, "status_change", string(from), string(next), userID)
		updated = &wo
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx, tenantID)
	return updated, nil
}
