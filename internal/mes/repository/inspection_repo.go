package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// InspectionRepository 检验仓库
type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// FindAll 查询检验列表
func (r *InspectionRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Inspection, int64, error) {
	var items []entity.Inspection
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Inspection{}).Where("tenant_id = ?", tenantID)

	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ?", "%"+search+"%")
	}
	if inspType := filters["type"]; inspType != "" {
		query = query.Where("type = ?", inspType)
	}
	if result := filters["result"]; result != "" {
		query = query.Where("result = ?", result)
	}
	if workOrderID := filters["work_order_id"]; workOrderID != "" {
		query = query.Where("work_order_id = ?", workOrderID)
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

// FindByID 根据ID查找检验，带改进单
func (r *InspectionRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Inspection, error) {
	var inspection entity.Inspection
	err := r.db.WithContext(ctx).
		Preload("Actions").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&inspection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

// ExistsByCode 编码是否已存在
func (r *InspectionRepository) ExistsByCode(ctx context.Context, tenantID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Inspection{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

// CountByResult 按结果统计检验数
func (r *InspectionRepository) CountByResult(ctx context.Context, tenantID string) (map[string]int64, error) {
	var rows []struct {
		Result string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Inspection{}).
		Select("result, COUNT(*) as total").
		Where("tenant_id = ?", tenantID).
		Group("result").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Result] = row.Total
	}
	return counts, nil
}

// Create 创建检验
func (r *InspectionRepository) Create(ctx context.Context, inspection *entity.Inspection) error {
	return r.db.WithContext(ctx).Create(inspection).Error
}

// Update 更新检验
func (r *InspectionRepository) Update(ctx context.Context, inspection *entity.Inspection) error {
	return r.db.WithContext(ctx).Omit("Actions").Save(inspection).Error
}

// Delete 删除检验及其改进单
func (r *InspectionRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND inspection_id = ?", tenantID, id).
			Delete(&entity.InspectionAction{}).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&entity.Inspection{}).Error
	})
}

// FindActionByID 根据ID查找改进单
func (r *InspectionRepository) FindActionByID(ctx context.Context, tenantID, id string) (*entity.InspectionAction, error) {
	var action entity.InspectionAction
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// FindActionsByInspection 查找检验下全部改进单
func (r *InspectionRepository) FindActionsByInspection(ctx context.Context, tenantID, inspectionID string) ([]entity.InspectionAction, error) {
	var actions []entity.InspectionAction
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND inspection_id = ?", tenantID, inspectionID).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}

// CreateAction 创建改进单
func (r *InspectionRepository) CreateAction(ctx context.Context, action *entity.InspectionAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// UpdateAction 更新改进单
func (r *InspectionRepository) UpdateAction(ctx context.Context, action *entity.InspectionAction) error {
	return r.db.WithContext(ctx).Save(action).Error
}

// DeleteAction 删除改进单
func (r *InspectionRepository) DeleteAction(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.InspectionAction{}).Error
}
