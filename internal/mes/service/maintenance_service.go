package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
)

// MaintenanceService 设备与维修单服务
type MaintenanceService struct {
	repo *repository.MaintenanceRepository
}

func NewMaintenanceService(repo *repository.MaintenanceRepository) *MaintenanceService {
	return &MaintenanceService{repo: repo}
}

// CreateEquipmentRequest 创建设备请求
type CreateEquipmentRequest struct {
	Code         string     `json:"code" binding:"required"`
	Name         string     `json:"name" binding:"required"`
	Model        string     `json:"model"`
	SiteID       string     `json:"site_id"`
	DepartmentID string     `json:"department_id"`
	InstalledAt  *time.Time `json:"installed_at"`
	Remarks      string     `json:"remarks"`
}

// UpdateEquipmentRequest 更新设备请求，nil字段保持不变
type UpdateEquipmentRequest struct {
	Name         *string    `json:"name"`
	Model        *string    `json:"model"`
	SiteID       *string    `json:"site_id"`
	DepartmentID *string    `json:"department_id"`
	InstalledAt  *time.Time `json:"installed_at"`
	Remarks      *string    `json:"remarks"`
}

// CreateMaintenanceOrderRequest 创建维修单请求
type CreateMaintenanceOrderRequest struct {
	EquipmentID string     `json:"equipment_id" binding:"required"`
	Type        string     `json:"type" binding:"omitempty,oneof=PREVENTIVE CORRECTIVE"`
	AssigneeID  string     `json:"assignee_id"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateMaintenanceOrderRequest 更新维修单请求，nil字段保持不变
type UpdateMaintenanceOrderRequest struct {
	Status      *entity.ActionStatus `json:"status"`
	AssigneeID  *string              `json:"assignee_id"`
	Description *string              `json:"description"`
	Result      *string              `json:"result"`
	DueDate     *time.Time           `json:"due_date"`
}

// ListEquipment 获取设备列表
func (s *MaintenanceService) ListEquipment(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Equipment, int64, error) {
	return s.repo.FindAllEquipment(ctx, tenantID, page, pageSize, filters)
}

// GetEquipment 获取设备详情
func (s *MaintenanceService) GetEquipment(ctx context.Context, tenantID, id string) (*entity.Equipment, error) {
	return s.repo.FindEquipmentByID(ctx, tenantID, id)
}

// CreateEquipment 创建设备
func (s *MaintenanceService) CreateEquipment(ctx context.Context, tenantID, userID string, req *CreateEquipmentRequest) (*entity.Equipment, error) {
	exists, err := s.repo.ExistsEquipmentByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("equipment code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	equipment := &entity.Equipment{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Code:         req.Code,
		Name:         req.Name,
		Model:        req.Model,
		SiteID:       req.SiteID,
		DepartmentID: req.DepartmentID,
		InstalledAt:  req.InstalledAt,
		Remarks:      req.Remarks,
		IsActive:     true,
		CreatedBy:    userID,
	}

	if err := s.repo.CreateEquipment(ctx, equipment); err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}
	return equipment, nil
}

// UpdateEquipment 更新设备
func (s *MaintenanceService) UpdateEquipment(ctx context.Context, tenantID, id string, req *UpdateEquipmentRequest) (*entity.Equipment, error) {
	equipment, err := s.repo.FindEquipmentByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		equipment.Name = *req.Name
	}
	if req.Model != nil {
		equipment.Model = *req.Model
	}
	if req.SiteID != nil {
		equipment.SiteID = *req.SiteID
	}
	if req.DepartmentID != nil {
		equipment.DepartmentID = *req.DepartmentID
	}
	if req.InstalledAt != nil {
		equipment.InstalledAt = req.InstalledAt
	}
	if req.Remarks != nil {
		equipment.Remarks = *req.Remarks
	}

	if err := s.repo.UpdateEquipment(ctx, equipment); err != nil {
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return equipment, nil
}

// DeleteEquipment 删除设备
func (s *MaintenanceService) DeleteEquipment(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindEquipmentByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.DeleteEquipment(ctx, tenantID, id)
}

// ToggleEquipmentActive 切换设备启用标记
func (s *MaintenanceService) ToggleEquipmentActive(ctx context.Context, tenantID, id string) (*entity.Equipment, error) {
	equipment, err := s.repo.FindEquipmentByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	equipment.IsActive = !equipment.IsActive
	if err := s.repo.UpdateEquipment(ctx, equipment); err != nil {
		return nil, fmt.Errorf("toggle equipment active: %w", err)
	}
	return equipment, nil
}

// ListOrders 获取维修单列表，filters支持equipment_id/status/type
func (s *MaintenanceService) ListOrders(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.MaintenanceOrder, int64, error) {
	return s.repo.FindAllOrders(ctx, tenantID, page, pageSize, filters)
}

// GetOrder 获取维修单详情
func (s *MaintenanceService) GetOrder(ctx context.Context, tenantID, id string) (*entity.MaintenanceOrder, error) {
	return s.repo.FindOrderByID(ctx, tenantID, id)
}

// CreateOrder 创建维修单，初始状态OPEN
func (s *MaintenanceService) CreateOrder(ctx context.Context, tenantID, userID string, req *CreateMaintenanceOrderRequest) (*entity.MaintenanceOrder, error) {
	if _, err := s.repo.FindEquipmentByID(ctx, tenantID, req.EquipmentID); err != nil {
		return nil, fmt.Errorf("equipment %s: %w", req.EquipmentID, err)
	}

	orderType := req.Type
	if orderType == "" {
		orderType = entity.MaintenanceTypeCorrective
	}

	order := &entity.MaintenanceOrder{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		EquipmentID: req.EquipmentID,
		Type:        orderType,
		Status:      entity.ActionOpen,
		AssigneeID:  req.AssigneeID,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create maintenance order: %w", err)
	}
	return order, nil
}

// UpdateOrder 更新维修单。状态只允许沿OPEN→IN_PROGRESS→COMPLETED前进，
// 状态不变的请求原样通过。状态校验不通过时不修改任何字段。
func (s *MaintenanceService) UpdateOrder(ctx context.Context, tenantID, id string, req *UpdateMaintenanceOrderRequest) (*entity.MaintenanceOrder, error) {
	order, err := s.repo.FindOrderByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != order.Status {
		if !order.Status.CanTransition(*req.Status) {
			return nil, fmt.Errorf("maintenance order %s -> %s: %w", order.Status, *req.Status, ErrInvalidStatusTransition)
		}
		order.Status = *req.Status
		if *req.Status == entity.ActionCompleted {
			now := time.Now()
			order.CompletedAt = &now
		}
	}

	if req.AssigneeID != nil {
		order.AssigneeID = *req.AssigneeID
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Result != nil {
		order.Result = *req.Result
	}
	if req.DueDate != nil {
		order.DueDate = req.DueDate
	}

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("update maintenance order: %w", err)
	}
	return order, nil
}

// DeleteOrder 删除维修单
func (s *MaintenanceService) DeleteOrder(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindOrderByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.DeleteOrder(ctx, tenantID, id)
}
