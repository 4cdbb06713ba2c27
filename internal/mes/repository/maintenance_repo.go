package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// MaintenanceRepository 设备与维修单仓库
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// FindAllEquipment 查询设备列表
func (r *MaintenanceRepository) FindAllEquipment(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Equipment, int64, error) {
	var items []entity.Equipment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Equipment{}).Where("tenant_id = ?", tenantID)

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
	err := query.Order("code ASC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

// FindEquipmentByID 根据ID查找设备
func (r *MaintenanceRepository) FindEquipmentByID(ctx context.Context, tenantID, id string) (*entity.Equipment, error) {
	var equipment entity.Equipment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&equipment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &equipment, nil
}

// ExistsEquipmentByCode 设备编码是否已存在
func (r *MaintenanceRepository) ExistsEquipmentByCode(ctx context.Context, tenantID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Equipment{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

// CreateEquipment 创建设备
func (r *MaintenanceRepository) CreateEquipment(ctx context.Context, equipment *entity.Equipment) error {
	return r.db.WithContext(ctx).Create(equipment).Error
}

// UpdateEquipment 更新设备
func (r *MaintenanceRepository) UpdateEquipment(ctx context.Context, equipment *entity.Equipment) error {
	return r.db.WithContext(ctx).Save(equipment).Error
}

// DeleteEquipment 删除设备
func (r *MaintenanceRepository) DeleteEquipment(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.Equipment{}).Error
}

// FindAllOrders 查询维修单列表
func (r *MaintenanceRepository) FindAllOrders(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.MaintenanceOrder, int64, error) {
	var items []entity.MaintenanceOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MaintenanceOrder{}).Where("tenant_id = ?", tenantID)

	if equipmentID := filters["equipment_id"]; equipmentID != "" {
		query = query.Where("equipment_id = ?", equipmentID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if orderType := filters["type"]; orderType != "" {
		query = query.Where("type = ?", orderType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

// FindOrderByID 根据ID查找维修单
func (r *MaintenanceRepository) FindOrderByID(ctx context.Context, tenantID, id string) (*entity.MaintenanceOrder, error) {
	var order entity.MaintenanceOrder
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// CreateOrder 创建维修单
func (r *MaintenanceRepository) CreateOrder(ctx context.Context, order *entity.MaintenanceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// UpdateOrder 更新维修单
func (r *MaintenanceRepository) UpdateOrder(ctx context.Context, order *entity.MaintenanceOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// DeleteOrder 删除维修单
func (r *MaintenanceRepository) DeleteOrder(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.MaintenanceOrder{}).Error
}
