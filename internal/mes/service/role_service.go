package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
)

// RoleService 角色服务
type RoleService struct {
	repo *repository.RoleRepository
}

func NewRoleService(repo *repository.RoleRepository) *RoleService {
	return &RoleService{repo: repo}
}

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Code          string   `json:"code" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permission_ids"`
}

// UpdateRoleRequest 更新角色请求，nil字段保持不变
type UpdateRoleRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Status        *string   `json:"status"`
	PermissionIDs *[]string `json:"permission_ids"`
}

// List 获取角色列表
func (s *RoleService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Role, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取角色详情
func (s *RoleService) Get(ctx context.Context, tenantID, id string) (*entity.Role, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// GetByCode 按编码获取角色
func (s *RoleService) GetByCode(ctx context.Context, tenantID, code string) (*entity.Role, error) {
	return s.repo.FindByCode(ctx, tenantID, code)
}

// ListPermissions 权限字典
func (s *RoleService) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// Create 创建角色
func (s *RoleService) Create(ctx context.Context, tenantID string, req *CreateRoleRequest) (*entity.Role, error) {
	exists, err := s.repo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("role code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	role := &entity.Role{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Status:      entity.StatusActive,
	}

	if err := s.repo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	if len(req.PermissionIDs) > 0 {
		perms, err := s.repo.FindPermissionsByIDs(ctx, req.PermissionIDs)
		if err != nil {
			return nil, fmt.Errorf("load permissions: %w", err)
		}
		if err := s.repo.ReplacePermissions(ctx, role, perms); err != nil {
			return nil, fmt.Errorf("assign permissions: %w", err)
		}
		role.Permissions = perms
	}
	return role, nil
}

// Update 更新角色
func (s *RoleService) Update(ctx context.Context, tenantID, id string, req *UpdateRoleRequest) (*entity.Role, error) {
	role, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, fmt.Errorf("system role cannot be modified: %w", ErrValidation)
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Status != nil {
		role.Status = *req.Status
	}

	if err := s.repo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if req.PermissionIDs != nil {
		perms, err := s.repo.FindPermissionsByIDs(ctx, *req.PermissionIDs)
		if err != nil {
			return nil, fmt.Errorf("load permissions: %w", err)
		}
		if err := s.repo.ReplacePermissions(ctx, role, perms); err != nil {
			return nil, fmt.Errorf("assign permissions: %w", err)
		}
		role.Permissions = perms
	}
	return role, nil
}

// Delete 删除角色
func (s *RoleService) Delete(ctx context.Context, tenantID, id string) error {
	role, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return fmt.Errorf("system role cannot be deleted: %w", ErrValidation)
	}
	return s.repo.Delete(ctx, tenantID, id)
}
