package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// SiteRepository 基地仓库
type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// FindAll 查询基地列表
func (r *SiteRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Site, int64, error) {
	var items []entity.Site
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Site{}).Where("tenant_id = ?", tenantID)

	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("code ASC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

// FindByID 根据ID查找基地
func (r *SiteRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Site, error) {
	var site entity.Site
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

// ExistsByCode 编码是否已存在
func (r *SiteRepository) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Site{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

// Create 创建基地
func (r *SiteRepository) Create(ctx context.Context, site *entity.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

// Update 更新基地
func (r *SiteRepository) Update(ctx context.Context, site *entity.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}

// Delete 删除基地
func (r *SiteRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.Site{}).Error
}

// DepartmentRepository 部门仓库
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// FindAll 查询部门列表
func (r *DepartmentRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Department, int64, error) {
	var items []entity.Department
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Department{}).Where("tenant_id = ?", tenantID)

	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if siteID := filters["site_id"]; siteID != "" {
		query = query.Where("site_id = ?", siteID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("sort_order ASC, code ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

// FindByID 根据ID查找部门
func (r *DepartmentRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Department, error) {
	var dept entity.Department
	err := r.db.WithContext(ctx).
		Preload("Site").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

// ExistsByCode 编码是否已存在
func (r *DepartmentRepository) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Department{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

// Create 创建部门
func (r *DepartmentRepository) Create(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

// Update 更新部门
func (r *DepartmentRepository) Update(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

// Delete 删除部门
func (r *DepartmentRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.Department{}).Error
}
