package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
)

// ActivityLogService 操作日志服务
type ActivityLogService struct {
	repo *repository.ActivityLogRepository
}

func NewActivityLogService(repo *repository.ActivityLogRepository) *ActivityLogService {
	return &ActivityLogService{repo: repo}
}

// Record 追加一条日志。日志失败不阻断业务流程。
func (s *ActivityLogService) Record(ctx context.Context, tenantID, entityType, entityID, entityCode, action, fromStatus, toStatus, operatorID string) {
	log := &entity.ActivityLog{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		EntityType: entityType,
		EntityID:   entityID,
		EntityCode: entityCode,
		Action:     action,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		OperatorID: operatorID,
	}
	_ = s.repo.Create(ctx, log)
}

// List 查询日志列表
func (s *ActivityLogService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.ActivityLog, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// ListByEntity 查询某实体的日志
func (s *ActivityLogService) ListByEntity(ctx context.Context, tenantID, entityType, entityID string, limit int) ([]entity.ActivityLog, error) {
	return s.repo.FindByEntity(ctx, tenantID, entityType, entityID, limit)
}
