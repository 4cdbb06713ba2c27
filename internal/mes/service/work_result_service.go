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

// WorkResultService 报工服务。所有写操作都在一个事务里同时完成
// 报工行的变更和所属工单派生数量的全量重算，两者要么都落库要么都回滚。
type WorkResultService struct {
	repo        *repository.WorkResultRepository
	woRepo      *repository.WorkOrderRepository
	activityLog *ActivityLogService
	dashboard   DashboardInvalidator
	db          *gorm.DB
}

func NewWorkResultService(repo *repository.WorkResultRepository, woRepo *repository.WorkOrderRepository, activityLog *ActivityLogService, dashboard DashboardInvalidator, db *gorm.DB) *WorkResultService {
	return &WorkResultService{
		repo:        repo,
		woRepo:      woRepo,
		activityLog: activityLog,
		dashboard:   dashboard,
		db:          db,
	}
}

func (s *WorkResultService) invalidateDashboard(ctx context.Context, tenantID string) {
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, tenantID)
	}
}

// CreateWorkResultRequest 创建报工请求
type CreateWorkResultRequest struct {
	WorkOrderID string          `json:"work_order_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	GoodQty     decimal.Decimal `json:"good_qty"`
	DefectQty   decimal.Decimal `json:"defect_qty"`
	WorkerID    string          `json:"worker_id"`
	LotID       string          `json:"lot_id"`
	ReportedAt  *time.Time      `json:"reported_at"`
	Remarks     string          `json:"remarks"`
}

// UpdateWorkResultRequest 更新报工请求，nil字段保持不变
type UpdateWorkResultRequest struct {
	Quantity   *decimal.Decimal `json:"quantity"`
	GoodQty    *decimal.Decimal `json:"good_qty"`
	DefectQty  *decimal.Decimal `json:"defect_qty"`
	WorkerID   *string          `json:"worker_id"`
	LotID      *string          `json:"lot_id"`
	ReportedAt *time.Time       `json:"reported_at"`
	Remarks    *string          `json:"remarks"`
}

// List 获取报工记录列表
func (s *WorkResultService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.WorkResult, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取报工记录详情
func (s *WorkResultService) Get(ctx context.Context, tenantID, id string) (*entity.WorkResult, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建报工记录并重算工单数量
func (s *WorkResultService) Create(ctx context.Context, tenantID, userID string, req *CreateWorkResultRequest) (*entity.WorkResult, error) {
	if req.Quantity.Sign() <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", ErrValidation)
	}

	reportedAt := time.Now()
	if req.ReportedAt != nil {
		reportedAt = *req.ReportedAt
	}

	result := &entity.WorkResult{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		WorkOrderID: req.WorkOrderID,
		Quantity:    req.Quantity,
		GoodQty:     req.GoodQty,
		DefectQty:   req.DefectQty,
		WorkerID:    req.WorkerID,
		LotID:       req.LotID,
		ReportedAt:  reportedAt,
		Remarks:     req.Remarks,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return fmt.Errorf("create work result: %w", err)
		}
		return s.recomputeWorkOrder(tx, tenantID, req.WorkOrderID)
	})
	if err != nil {
		return nil, err
	}

	s.activityLog.Record(ctx, tenantID, "work_result", result.ID, "", "create", "", "", userID)
	s.invalidateDashboard(ctx, tenantID)
	return result, nil
}

// Update 更新报工记录并重算工单数量
func (s *WorkResultService) Update(ctx context.Context, tenantID, id string, req *UpdateWorkResultRequest) (*entity.WorkResult, error) {
	result, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if req.Quantity.Sign() <= 0 {
			return nil, fmt.Errorf("quantity must be positive: %w", ErrValidation)
		}
		result.Quantity = *req.Quantity
	}
	if req.GoodQty != nil {
		result.GoodQty = *req.GoodQty
	}
	if req.DefectQty != nil {
		result.DefectQty = *req.DefectQty
	}
	if req.WorkerID != nil {
		result.WorkerID = *req.WorkerID
	}
	if req.LotID != nil {
		result.LotID = *req.LotID
	}
	if req.ReportedAt != nil {
		result.ReportedAt = *req.ReportedAt
	}
	if req.Remarks != nil {
		result.Remarks = *req.Remarks
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(result).Error; err != nil {
			return fmt.Errorf("update work result: %w", err)
		}
		return s.recomputeWorkOrder(tx, tenantID, result.WorkOrderID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx, tenantID)
	return result, nil
}

// Delete 删除报工记录并重算工单数量
func (s *WorkResultService) Delete(ctx context.Context, tenantID, id, userID string) error {
	result, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&entity.WorkResult{}).Error; err != nil {
			return fmt.Errorf("delete work result: %w", err)
		}
		return s.recomputeWorkOrder(tx, tenantID, result.WorkOrderID)
	})
	if err != nil {
		return err
	}

	s.activityLog.Record(ctx, tenantID, "work_result", id, "", "delete", "", "", userID)
	s.invalidateDashboard(ctx, tenantID)
	return nil
}

// recomputeWorkOrder 全量重算工单派生数量：取出工单下全部报工记录，
// 用decimal逐行求和后写回。不做增量，正确性优先。
func (s *WorkResultService) recomputeWorkOrder(tx *gorm.DB, tenantID, workOrderID string) error {
	var wo entity.WorkOrder
	if err := tx.Where("tenant_id = ? AND id = ?", tenantID, workOrderID).First(&wo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("work order %s: %w", workOrderID, repository.ErrNotFound)
		}
		return err
	}

	var results []entity.WorkResult
	if err := tx.Where("tenant_id = ? AND work_order_id = ?", tenantID, workOrderID).
		Find(&results).Error; err != nil {
		return fmt.Errorf("load work results: %w", err)
	}

	actual, good, defect := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range results {
		actual = actual.Add(r.Quantity)
		good = good.Add(r.GoodQty)
		defect = defect.Add(r.DefectQty)
	}

	wo.ActualQty = actual
	wo.GoodQty = good
	wo.DefectQty = defect

	if err := tx.Omit("Product", "Results").Save(&wo).Error; err != nil {
		return fmt.Errorf("save work order totals: %w", err)
	}
	return nil
}
