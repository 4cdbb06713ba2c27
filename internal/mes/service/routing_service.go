package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/shopspring/decimal"
)

// RoutingService 工艺路线服务
type RoutingService struct {
	repo        *repository.RoutingRepository
	productRepo *repository.ProductRepository
	activityLog *ActivityLogService
}

func NewRoutingService(repo *repository.RoutingRepository, productRepo *repository.ProductRepository, activityLog *ActivityLogService) *RoutingService {
	return &RoutingService{repo: repo, productRepo: productRepo, activityLog: activityLog}
}

// RoutingStepRequest 工序
type RoutingStepRequest struct {
	Sequence     int             `json:"sequence"`
	ProcessCode  string          `json:"process_code" binding:"required"`
	ProcessName  string          `json:"process_name" binding:"required"`
	WorkCenter   string          `json:"work_center"`
	SetupMinutes decimal.Decimal `json:"setup_minutes"`
	CycleMinutes decimal.Decimal `json:"cycle_minutes"`
	IsInspection bool            `json:"is_inspection"`
	Remarks      string          `json:"remarks"`
}

// CreateRoutingRequest 创建工艺路线请求
type CreateRoutingRequest struct {
	Code          string               `json:"code" binding:"required"`
	Version       string               `json:"version" binding:"required"`
	Name          string               `json:"name" binding:"required"`
	ProductID     string               `json:"product_id" binding:"required"`
	EffectiveFrom *time.Time           `json:"effective_from"`
	EffectiveTo   *time.Time           `json:"effective_to"`
	Remarks       string               `json:"remarks"`
	Steps         []RoutingStepRequest `json:"steps"`
}

// UpdateRoutingRequest 更新工艺路线头请求，nil字段保持不变
type UpdateRoutingRequest struct {
	Name          *string    `json:"name"`
	EffectiveFrom *time.Time `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
	Remarks       *string    `json:"remarks"`
}

// List 获取工艺路线列表
func (s *RoutingService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.ProcessRouting, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取工艺路线详情
func (s *RoutingService) Get(ctx context.Context, tenantID, id string) (*entity.ProcessRouting, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// GetByCodeVersion 按 (code, version) 获取工艺路线
func (s *RoutingService) GetByCodeVersion(ctx context.Context, tenantID, code, version string) (*entity.ProcessRouting, error) {
	return s.repo.FindByCodeVersion(ctx, tenantID, code, version)
}

// ListVersions 获取同一编码下的全部版本
func (s *RoutingService) ListVersions(ctx context.Context, tenantID, code string) ([]entity.ProcessRouting, error) {
	return s.repo.ListVersions(ctx, tenantID, code)
}

// Create 创建工艺路线。工序未给序号时按出现顺序补齐。
func (s *RoutingService) Create(ctx context.Context, tenantID, userID string, req *CreateRoutingRequest) (*entity.ProcessRouting, error) {
	if _, err := s.productRepo.FindByID(ctx, tenantID, req.ProductID); err != nil {
		return nil, fmt.Errorf("product %s: %w", req.ProductID, err)
	}

	exists, err := s.repo.ExistsByCodeVersion(ctx, tenantID, req.Code, req.Version)
	if err != nil {
		return nil, fmt.Errorf("check code version: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("routing %s version %s: %w", req.Code, req.Version, repository.ErrDuplicateCode)
	}

	routing := &entity.ProcessRouting{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		Code:          req.Code,
		Version:       req.Version,
		Name:          req.Name,
		ProductID:     req.ProductID,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
		Remarks:       req.Remarks,
		IsActive:      true,
		CreatedBy:     userID,
	}

	for i, st := range req.Steps {
		seq := st.Sequence
		if seq == 0 {
			seq = i + 1
		}
		routing.Steps = append(routing.Steps, entity.RoutingStep{
			ID:           uuid.New().String(),
			RoutingID:    routing.ID,
			Sequence:     seq,
			ProcessCode:  st.ProcessCode,
			ProcessName:  st.ProcessName,
			WorkCenter:   st.WorkCenter,
			SetupMinutes: st.SetupMinutes,
			CycleMinutes: st.CycleMinutes,
			IsInspection: st.IsInspection,
			Remarks:      st.Remarks,
		})
	}

	if err := s.repo.Create(ctx, routing); err != nil {
		return nil, fmt.Errorf("create routing: %w", err)
	}

	s.activityLog.Record(ctx, tenantID, "routing", routing.ID, routing.Code, "create", "", "", userID)
	return routing, nil
}

// Update 更新工艺路线头
func (s *RoutingService) Update(ctx context.Context, tenantID, id string, req *UpdateRoutingRequest) (*entity.ProcessRouting, error) {
	routing, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		routing.Name = *req.Name
	}
	if req.EffectiveFrom != nil {
		routing.EffectiveFrom = req.EffectiveFrom
	}
	if req.EffectiveTo != nil {
		routing.EffectiveTo = req.EffectiveTo
	}
	if req.Remarks != nil {
		routing.Remarks = *req.Remarks
	}

	if err := s.repo.Update(ctx, routing); err != nil {
		return nil, fmt.Errorf("update routing: %w", err)
	}
	return routing, nil
}

// Delete 删除工艺路线及其工序
func (s *RoutingService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// ToggleActive 切换启用标记
func (s *RoutingService) ToggleActive(ctx context.Context, tenantID, id string) (*entity.ProcessRouting, error) {
	routing, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	routing.IsActive = !routing.IsActive
	if err := s.repo.Update(ctx, routing); err != nil {
		return nil, fmt.Errorf("toggle routing active: %w", err)
	}
	return routing, nil
}

// CopyVersion 复制工艺路线到新版本，语义与BOM复制一致：
// 工序按值深拷贝并保留原序号，IsActive无条件置true，整体一个事务。
func (s *RoutingService) CopyVersion(ctx context.Context, tenantID, sourceID, newVersion, userID string) (*entity.ProcessRouting, error) {
	if newVersion == "" {
		return nil, fmt.Errorf("version is required: %w", ErrValidation)
	}

	source, err := s.repo.FindByID(ctx, tenantID, sourceID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCodeVersion(ctx, tenantID, source.Code, newVersion)
	if err != nil {
		return nil, fmt.Errorf("check code version: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("routing %s version %s: %w", source.Code, newVersion, repository.ErrDuplicateCode)
	}

	copied := &entity.ProcessRouting{
		ID:            uuid.New().String(),
		TenantID:      source.TenantID,
		Code:          source.Code,
		Version:       newVersion,
		Name:          source.Name,
		ProductID:     source.ProductID,
		EffectiveFrom: source.EffectiveFrom,
		EffectiveTo:   source.EffectiveTo,
		Remarks:       source.Remarks,
		IsActive:      true,
		CreatedBy:     userID,
	}

	for _, st := range source.Steps {
		copied.Steps = append(copied.Steps, entity.RoutingStep{
			ID:           uuid.New().String(),
			RoutingID:    copied.ID,
			Sequence:     st.Sequence,
			ProcessCode:  st.ProcessCode,
			ProcessName:  st.ProcessName,
			WorkCenter:   st.WorkCenter,
			SetupMinutes: st.SetupMinutes,
			CycleMinutes: st.CycleMinutes,
			IsInspection: st.IsInspection,
			Remarks:      st.Remarks,
		})
	}

	if err := s.repo.Create(ctx, copied); err != nil {
		return nil, fmt.Errorf("copy routing version: %w", err)
	}

	s.activityLog.Record(ctx, tenantID, "routing", copied.ID, copied.Code, "copy_version", source.Version, newVersion, userID)
	return copied, nil
}
