package repository

import (
	"context"
	"errors"
	"time"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// WorkResultRepository 报工记录仓库
type WorkResultRepository struct {
	db *gorm.DB
}

func NewWorkResultRepository(db *gorm.DB) *WorkResultRepository {
	return &WorkResultRepository{db: db}
}

// FindAll 查询报工记录列表
func (r *WorkResultRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.WorkResult, int64, error) {
	var items []entity.WorkResult
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.WorkResult{}).Where("tenant_id = ?", tenantID)

	if workOrderID := filters["work_order_id"]; workOrderID != "" {
		query = query.Where("work_order_id = ?", workOrderID)
	}
	if workerID := filters["worker_id"]; workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("reported_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

// FindByID 根据ID查找报工记录
func (r *WorkResultRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.WorkResult, error) {
	var result entity.WorkResult
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// FindByWorkOrder 查找工单下全部报工记录
func (r *WorkResultRepository) FindByWorkOrder(ctx context.Context, tenantID, workOrderID string) ([]entity.WorkResult, error) {
	var results []entity.WorkResult
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND work_order_id = ?", tenantID, workOrderID).
		Order("reported_at ASC").
		Find(&results).Error
	return results, err
}

// FindByDateRange 按时间段查找报工记录
func (r *WorkResultRepository) FindByDateRange(ctx context.Context, tenantID string, from, to time.Time) ([]entity.WorkResult, error) {
	var results []entity.WorkResult
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reported_at >= ? AND reported_at < ?", tenantID, from, to).
		Order("reported_at ASC").
		Find(&results).Error
	return results, err
}
