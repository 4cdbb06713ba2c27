package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
)

// UserService 用户服务
type UserService struct {
	repo     *repository.UserRepository
	roleRepo *repository.RoleRepository
}

func NewUserService(repo *repository.UserRepository, roleRepo *repository.RoleRepository) *UserService {
	return &UserService{repo: repo, roleRepo: roleRepo}
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username     string   `json:"username" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Email        string   `json:"email"`
	Mobile       string   `json:"mobile"`
	DepartmentID string   `json:"department_id"`
	RoleIDs      []string `json:"role_ids"`
}

// UpdateUserRequest 更新用户请求，nil字段保持不变
type UpdateUserRequest struct {
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	Mobile       *string   `json:"mobile"`
	DepartmentID *string   `json:"department_id"`
	Status       *string   `json:"status"`
	RoleIDs      *[]string `json:"role_ids"`
}

// List 获取用户列表
func (s *UserService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.User, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取用户详情
func (s *UserService) Get(ctx context.Context, tenantID, id string) (*entity.User, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建用户
func (s *UserService) Create(ctx context.Context, tenantID string, req *CreateUserRequest) (*entity.User, error) {
	exists, err := s.repo.ExistsByUsername(ctx, tenantID, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("username %s: %w", req.Username, repository.ErrDuplicateCode)
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		DepartmentID: req.DepartmentID,
		Status:       entity.StatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if len(req.RoleIDs) > 0 {
		roles, err := s.roleRepo.FindByIDs(ctx, tenantID, req.RoleIDs)
		if err != nil {
			return nil, fmt.Errorf("load roles: %w", err)
		}
		if err := s.repo.ReplaceRoles(ctx, user, roles); err != nil {
			return nil, fmt.Errorf("assign roles: %w", err)
		}
		user.Roles = roles
	}
	return user, nil
}

// Update 更新用户
func (s *UserService) Update(ctx context.Context, tenantID, id string, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Mobile != nil {
		user.Mobile = *req.Mobile
	}
	if req.DepartmentID != nil {
		user.DepartmentID = *req.DepartmentID
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if req.RoleIDs != nil {
		roles, err := s.roleRepo.FindByIDs(ctx, tenantID, *req.RoleIDs)
		if err != nil {
			return nil, fmt.Errorf("load roles: %w", err)
		}
		if err := s.repo.ReplaceRoles(ctx, user, roles); err != nil {
			return nil, fmt.Errorf("assign roles: %w", err)
		}
		user.Roles = roles
	}
	return user, nil
}

// Delete 删除用户
func (s *UserService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// ToggleActive 启用/停用用户
func (s *UserService) ToggleActive(ctx context.Context, tenantID, id string) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if user.Status == entity.StatusActive {
		user.Status = entity.StatusInactive
	} else {
		user.Status = entity.StatusActive
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("toggle user status: %w", err)
	}
	return user, nil
}
