package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
)

// SiteService 基地服务
type SiteService struct {
	repo *repository.SiteRepository
}

func NewSiteService(repo *repository.SiteRepository) *SiteService {
	return &SiteService{repo: repo}
}

// CreateSiteRequest 创建基地请求
type CreateSiteRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone"`
	Address  string `json:"address"`
	Remarks  string `json:"remarks"`
}

// UpdateSiteRequest 更新基地请求，nil字段保持不变
type UpdateSiteRequest struct {
	Name     *string `json:"name"`
	Timezone *string `json:"timezone"`
	Address  *string `json:"address"`
	Remarks  *string `json:"remarks"`
}

// List 获取基地列表
func (s *SiteService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Site, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取基地详情
func (s *SiteService) Get(ctx context.Context, tenantID, id string) (*entity.Site, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建基地
func (s *SiteService) Create(ctx context.Context, tenantID string, req *CreateSiteRequest) (*entity.Site, error) {
	exists, err := s.repo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("site code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	site := &entity.Site{
		ID:       uuid.New().String(),
		TenantID: tenantID,
		Code:     req.Code,
		Name:     req.Name,
		Timezone: req.Timezone,
		Address:  req.Address,
		Remarks:  req.Remarks,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	return site, nil
}

// Update 更新基地
func (s *SiteService) Update(ctx context.Context, tenantID, id string, req *UpdateSiteRequest) (*entity.Site, error) {
	site, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Timezone != nil {
		site.Timezone = *req.Timezone
	}
	if req.Address != nil {
		site.Address = *req.Address
	}
	if req.Remarks != nil {
		site.Remarks = *req.Remarks
	}

	if err := s.repo.Update(ctx, site); err != nil {
		return nil, fmt.Errorf("update site: %w", err)
	}
	return site, nil
}

// Delete 删除基地
func (s *SiteService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// ToggleActive 切换启用标记
func (s *SiteService) ToggleActive(ctx context.Context, tenantID, id string) (*entity.Site, error) {
	site, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	site.IsActive = !site.IsActive
	if err := s.repo.Update(ctx, site); err != nil {
		return nil, fmt.Errorf("toggle site active: %w", err)
	}
	return site, nil
}

// DepartmentService 部门服务
type DepartmentService struct {
	repo     *repository.DepartmentRepository
	siteRepo *repository.SiteRepository
}

func NewDepartmentService(repo *repository.DepartmentRepository, siteRepo *repository.SiteRepository) *DepartmentService {
	return &DepartmentService{repo: repo, siteRepo: siteRepo}
}

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SiteID    string `json:"site_id"`
	ParentID  string `json:"parent_id"`
	LeaderID  string `json:"leader_id"`
	SortOrder int    `json:"sort_order"`
}

// UpdateDepartmentRequest 更新部门请求，nil字段保持不变
type UpdateDepartmentRequest struct {
	Name      *string `json:"name"`
	SiteID    *string `json:"site_id"`
	ParentID  *string `json:"parent_id"`
	LeaderID  *string `json:"leader_id"`
	SortOrder *int    `json:"sort_order"`
}

// List 获取部门列表
func (s *DepartmentService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Department, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取部门详情
func (s *DepartmentService) Get(ctx context.Context, tenantID, id string) (*entity.Department, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建部门
func (s *DepartmentService) Create(ctx context.Context, tenantID string, req *CreateDepartmentRequest) (*entity.Department, error) {
	exists, err := s.repo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("department code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	if req.SiteID != "" {
		if _, err := s.siteRepo.FindByID(ctx, tenantID, req.SiteID); err != nil {
			return nil, fmt.Errorf("site %s: %w", req.SiteID, err)
		}
	}

	dept := &entity.Department{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Code:      req.Code,
		Name:      req.Name,
		SiteID:    req.SiteID,
		ParentID:  req.ParentID,
		LeaderID:  req.LeaderID,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}

	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	return dept, nil
}

// Update 更新部门
func (s *DepartmentService) Update(ctx context.Context, tenantID, id string, req *UpdateDepartmentRequest) (*entity.Department, error) {
	dept, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		dept.Name = *req.Name
	}
	if req.SiteID != nil {
		dept.SiteID = *req.SiteID
	}
	if req.ParentID != nil {
		dept.ParentID = *req.ParentID
	}
	if req.LeaderID != nil {
		dept.LeaderID = *req.LeaderID
	}
	if req.SortOrder != nil {
		dept.SortOrder = *req.SortOrder
	}

	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, fmt.Errorf("update department: %w", err)
	}
	return dept, nil
}

// Delete 删除部门
func (s *DepartmentService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// ToggleActive 切换启用标记
func (s *DepartmentService) ToggleActive(ctx context.Context, tenantID, id string) (*entity.Department, error) {
	dept, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dept.IsActive = !dept.IsActive
	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, fmt.Errorf("toggle department active: %w", err)
	}
	return dept, nil
}
