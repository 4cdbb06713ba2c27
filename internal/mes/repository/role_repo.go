package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// RoleRepository 角色仓库
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindAll 查询角色列表
func (r *RoleRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Role, int64, error) {
	var items []entity.Role
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Role{}).Where("tenant_id = ?", tenantID)

	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找角色
func (r *RoleRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Role, error) {
	var role entity.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByCode 根据编码查找角色
func (r *RoleRepository) FindByCode(ctx context.Context, tenantID, code string) (*entity.Role, error) {
	var role entity.Role
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// ExistsByCode 编码是否已存在
func (r *RoleRepository) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Role{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

// FindByIDs 按ID集合查找角色
func (r *RoleRepository) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]entity.Role, error) {
	var roles []entity.Role
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&roles).Error
	return roles, err
}

// Create 创建角色
func (r *RoleRepository) Create(ctx context.Context, role *entity.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// Update 更新角色
func (r *RoleRepository) Update(ctx context.Context, role *entity.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// Delete 删除角色
func (r *RoleRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.Role{}).Error
}

// ListPermissions 权限字典
func (r *RoleRepository) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	var perms []entity.Permission
	err := r.db.WithContext(ctx).Order("code ASC").Find(&perms).Error
	return perms, err
}

// FindPermissionsByIDs 按ID集合查找权限
func (r *RoleRepository) FindPermissionsByIDs(ctx context.Context, ids []string) ([]entity.Permission, error) {
	var perms []entity.Permission
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&perms).Error
	return perms, err
}

// ReplacePermissions 替换角色权限
func (r *RoleRepository) ReplacePermissions(ctx context.Context, role *entity.Role, perms []entity.Permission) error {
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms)
}
