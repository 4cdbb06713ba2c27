package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
)

// InspectionService 检验服务
type InspectionService struct {
	repo        *repository.InspectionRepository
	activityLog *ActivityLogService
	dashboard   DashboardInvalidator
}

func NewInspectionService(repo *repository.InspectionRepository, activityLog *ActivityLogService, dashboard DashboardInvalidator) *InspectionService {
	return &InspectionService{repo: repo, activityLog: activityLog, dashboard: dashboard}
}

func (s *InspectionService) invalidateDashboard(ctx context.Context, tenantID string) {
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, tenantID)
	}
}

// CreateInspectionRequest 创建检验请求
type CreateInspectionRequest struct {
	Code        string       `json:"code" binding:"required"`
	Type        string       `json:"type"`
	ProductID   string       `json:"product_id"`
	LotID       string       `json:"lot_id"`
	WorkOrderID string       `json:"work_order_id"`
	PartnerID   string       `json:"partner_id"`
	InspectorID string       `json:"inspector_id"`
	Criteria    entity.JSONB `json:"criteria"`
	Remarks     string       `json:"remarks"`
}

// UpdateInspectionRequest 更新检验请求，nil字段保持不变
type UpdateInspectionRequest struct {
	InspectorID *string       `json:"inspector_id"`
	Result      *string       `json:"result"`
	InspectedAt *time.Time    `json:"inspected_at"`
	Criteria    *entity.JSONB `json:"criteria"`
	Remarks     *string       `json:"remarks"`
}

// CreateActionRequest 创建改进单请求
type CreateActionRequest struct {
	AssigneeID  string     `json:"assignee_id"`
	Description string     `json:"description" binding:"required"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateActionRequest 更新改进单请求。Status非nil时触发状态流转校验，
// 其余字段按patch语义处理。
type UpdateActionRequest struct {
	Status      *entity.ActionStatus `json:"status"`
	AssigneeID  *string              `json:"assignee_id"`
	Description *string              `json:"description"`
	Result      *string              `json:"result"`
	DueDate     *time.Time           `json:"due_date"`
}

// List 获取检验列表
func (s *InspectionService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Inspection, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取检验详情
func (s *InspectionService) Get(ctx context.Context, tenantID, id string) (*entity.Inspection, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建检验
func (s *InspectionService) Create(ctx context.Context, tenantID, userID string, req *CreateInspectionRequest) (*entity.Inspection, error) {
	exists, err := s.repo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("inspection code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	inspection := &entity.Inspection{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Code:        req.Code,
		Type:        req.Type,
		ProductID:   req.ProductID,
		LotID:       req.LotID,
		WorkOrderID: req.WorkOrderID,
		PartnerID:   req.PartnerID,
		InspectorID: req.InspectorID,
		Criteria:    req.Criteria,
		Remarks:     req.Remarks,
		CreatedBy:   userID,
	}

	if err := s.repo.Create(ctx, inspection); err != nil {
		return nil, fmt.Errorf("create inspection: %w", err)
	}

	s.invalidateDashboard(ctx, tenantID)
	return inspection, nil
}

// Update 更新检验
func (s *InspectionService) Update(ctx context.Context, tenantID, id string, req *UpdateInspectionRequest) (*entity.Inspection, error) {
	inspection, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.InspectorID != nil {
		inspection.InspectorID = *req.InspectorID
	}
	if req.Result != nil {
		inspection.Result = *req.Result
	}
	if req.InspectedAt != nil {
		inspection.InspectedAt = req.InspectedAt
	}
	if req.Criteria != nil {
		inspection.Criteria = *req.Criteria
	}
	if req.Remarks != nil {
		inspection.Remarks = *req.Remarks
	}

	if err := s.repo.Update(ctx, inspection); err != nil {
		return nil, fmt.Errorf("update inspection: %w", err)
	}

	s.invalidateDashboard(ctx, tenantID)
	return inspection, nil
}

// Delete 删除检验
func (s *InspectionService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidateDashboard(ctx, tenantID)
	return nil
}

// ListActions 获取检验下的改进单
func (s *InspectionService) ListActions(ctx context.Context, tenantID, inspectionID string) ([]entity.InspectionAction, error) {
	if _, err := s.repo.FindByID(ctx, tenantID, inspectionID); err != nil {
		return nil, err
	}
	return s.repo.FindActionsByInspection(ctx, tenantID, inspectionID)
}

// CreateAction 创建改进单，初始状态OPEN
func (s *InspectionService) CreateAction(ctx context.Context, tenantID, inspectionID, userID string, req *CreateActionRequest) (*entity.InspectionAction, error) {
	inspection, err := s.repo.FindByID(ctx, tenantID, inspectionID)
	if err != nil {
		return nil, err
	}

	action := &entity.InspectionAction{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		InspectionID: inspection.ID,
		Status:       entity.ActionOpen,
		AssigneeID:   req.AssigneeID,
		Description:  req.Description,
		DueDate:      req.DueDate,
		CreatedBy:    userID,
	}

	if err := s.repo.CreateAction(ctx, action); err != nil {
		return nil, fmt.Errorf("create inspection action: %w", err)
	}

	s.activityLog.Record(ctx, tenantID, "inspection_action", action.ID, inspection.Code, "create", "", string(action.Status), userID)
	return action, nil
}

// UpdateAction 更新改进单。改进单必须挂在给定检验单下，否则按不存在处理。
// 仅当请求带目标状态时才走流转校验：
// 同状态为无操作成功，OPEN只能进IN_PROGRESS，IN_PROGRESS只能进COMPLETED，
// COMPLETED为终态。校验失败时整个更新不落库。
func (s *InspectionService) UpdateAction(ctx context.Context, tenantID, inspectionID, id, userID string, req *UpdateActionRequest) (*entity.InspectionAction, error) {
	action, err := s.findOwnedAction(ctx, tenantID, inspectionID, id)
	if err != nil {
		return nil, err
	}

	from := action.Status
	if req.Status != nil && *req.Status != from {
		if !from.CanTransition(*req.Status) {
			return nil, fmt.Errorf("inspection action %s: %s -> %s: %w", action.ID, from, *req.Status, ErrInvalidStatusTransition)
		}
		action.Status = *req.Status
		if action.Status == entity.ActionCompleted {
			now := time.Now()
			action.CompletedAt = &now
		}
	}

	if req.AssigneeID != nil {
		action.AssigneeID = *req.AssigneeID
	}
	if req.Description != nil {
		action.Description = *req.Description
	}
	if req.Result != nil {
		action.Result = *req.Result
	}
	if req.DueDate != nil {
		action.DueDate = req.DueDate
	}

	if err := s.repo.UpdateAction(ctx, action); err != nil {
		return nil, fmt.Errorf("update inspection action: %w", err)
	}

	if action.Status != from {
		s.activityLog.Record(ctx, tenantID, "inspection_action", action.ID, "", "status_change", string(from), string(action.Status), userID)
	}
	return action, nil
}

// DeleteAction 删除改进单，改进单必须挂在给定检验单下
func (s *InspectionService) DeleteAction(ctx context.Context, tenantID, inspectionID, id string) error {
	if _, err := s.findOwnedAction(ctx, tenantID, inspectionID, id); err != nil {
		return err
	}
	return s.repo.DeleteAction(ctx, tenantID, id)
}

// findOwnedAction 加载改进单并校验归属检验单
func (s *InspectionService) findOwnedAction(ctx context.Context, tenantID, inspectionID, id string) (*entity.InspectionAction, error) {
	action, err := s.repo.FindActionByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if action.InspectionID != inspectionID {
		return nil, fmt.Errorf("inspection action %s: %w", id, repository.ErrNotFound)
	}
	return action, nil
}
