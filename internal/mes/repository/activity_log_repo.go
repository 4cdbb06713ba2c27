package repository

import (
	"context"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// ActivityLogRepository 操作日志仓库
type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create 追加日志
func (r *ActivityLogRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByEntity 查询某实体的日志
func (r *ActivityLogRepository) FindByEntity(ctx context.Context, tenantID, entityType, entityID string, limit int) ([]entity.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []entity.ActivityLog
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// FindAll 查询日志列表
func (r *ActivityLogRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.ActivityLog, int64, error) {
	var items []entity.ActivityLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ActivityLog{}).Where("tenant_id = ?", tenantID)

	if entityType := filters["entity_type"]; entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if action := filters["action"]; action != "" {
		query = query.Where("action = ?", action)
	}
	if operatorID := filters["operator_id"]; operatorID != "" {
		query = query.Where("operator_id = ?", operatorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}
