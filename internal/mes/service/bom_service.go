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

// BomService BOM服务
type BomService struct {
	repo        *repository.BomRepository
	productRepo *repository.ProductRepository
	activityLog *ActivityLogService
}

func NewBomService(repo *repository.BomRepository, productRepo *repository.ProductRepository, activityLog *ActivityLogService) *BomService {
	return &BomService{repo: repo, productRepo: productRepo, activityLog: activityLog}
}

// BomDetailRequest BOM行项
type BomDetailRequest struct {
	Sequence    int             `json:"sequence"`
	ComponentID string          `json:"component_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	ScrapRate   decimal.Decimal `json:"scrap_rate"`
	Unit        string          `json:"unit"`
	Position    string          `json:"position"`
	IsOptional  bool            `json:"is_optional"`
	Remarks     string          `json:"remarks"`
}

// CreateBomRequest 创建BOM请求
type CreateBomRequest struct {
	Code          string             `json:"code" binding:"required"`
	Version       string             `json:"version" binding:"required"`
	Name          string             `json:"name" binding:"required"`
	ProductID     string             `json:"product_id" binding:"required"`
	EffectiveFrom *time.Time         `json:"effective_from"`
	EffectiveTo   *time.Time         `json:"effective_to"`
	Remarks       string             `json:"remarks"`
	Details       []BomDetailRequest `json:"details"`
}

// UpdateBomRequest 更新BOM头请求，nil字段保持不变
type UpdateBomRequest struct {
	Name          *string    `json:"name"`
	EffectiveFrom *time.Time `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
	Remarks       *string    `json:"remarks"`
}

// List 获取BOM列表
func (s *BomService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Bom, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取BOM详情
func (s *BomService) Get(ctx context.Context, tenantID, id string) (*entity.Bom, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// GetByCodeVersion 按 (code, version) 获取BOM
func (s *BomService) GetByCodeVersion(ctx context.Context, tenantID, code, version string) (*entity.Bom, error) {
	return s.repo.FindByCodeVersion(ctx, tenantID, code, version)
}

// ListVersions 获取同一编码下的全部版本
func (s *BomService) ListVersions(ctx context.Context, tenantID, code string) ([]entity.Bom, error) {
	return s.repo.ListVersions(ctx, tenantID, code)
}

// Create 创建BOM。行项未给序号时按出现顺序补齐。
func (s *BomService) Create(ctx context.Context, tenantID, userID string, req *CreateBomRequest) (*entity.Bom, error) {
	if _, err := s.productRepo.FindByID(ctx, tenantID, req.ProductID); err != nil {
		return nil, fmt.Errorf("product %s: %w", req.ProductID, err)
	}

	exists, err := s.repo.ExistsByCodeVersion(ctx, tenantID, req.Code, req.Version)
	if err != nil {
		return nil, fmt.Errorf("check code version: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("bom %s version %s: %w", req.Code, req.Version, repository.ErrDuplicateCode)
	}

	bom := &entity.Bom{
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

	for i, d := range req.Details {
		seq := d.Sequence
		if seq == 0 {
			seq = i + 1
		}
		bom.Details = append(bom.Details, entity.BomDetail{
			ID:          uuid.New().String(),
			BomID:       bom.ID,
			Sequence:    seq,
			ComponentID: d.ComponentID,
			Quantity:    d.Quantity,
			ScrapRate:   d.ScrapRate,
			Unit:        defaultUnit(d.Unit),
			Position:    d.Position,
			IsOptional:  d.IsOptional,
			Remarks:     d.Remarks,
		})
	}

	if err := s.repo.Create(ctx, bom); err != nil {
		return nil, fmt.Errorf("create bom: %w", err)
	}

	s.activityLog.Record(ctx, tenantID, "bom", bom.ID, bom.Code, "create", "", "", userID)
	return bom, nil
}

// Update 更新BOM头
func (s *BomService) Update(ctx context.Context, tenantID, id string, req *UpdateBomRequest) (*entity.Bom, error) {
	bom, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		bom.Name = *req.Name
	}
	if req.EffectiveFrom != nil {
		bom.EffectiveFrom = req.EffectiveFrom
	}
	if req.EffectiveTo != nil {
		bom.EffectiveTo = req.EffectiveTo
	}
	if req.Remarks != nil {
		bom.Remarks = *req.Remarks
	}

	if err := s.repo.Update(ctx, bom); err != nil {
		return nil, fmt.Errorf("update bom: %w", err)
	}
	return bom, nil
}

// Delete 删除BOM及其行项
func (s *BomService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// ToggleActive 切换启用标记
func (s *BomService) ToggleActive(ctx context.Context, tenantID, id string) (*entity.Bom, error) {
	bom, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	bom.IsActive = !bom.IsActive
	if err := s.repo.Update(ctx, bom); err != nil {
		return nil, fmt.Errorf("toggle bom active: %w", err)
	}
	return bom, nil
}

// AddDetail 追加BOM行项。未给序号时排在当前最大序号之后。
func (s *BomService) AddDetail(ctx context.Context, tenantID, bomID string, req *BomDetailRequest) (*entity.BomDetail, error) {
	bom, err := s.repo.FindByID(ctx, tenantID, bomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, tenantID, req.ComponentID); err != nil {
		return nil, fmt.Errorf("component %s: %w", req.ComponentID, err)
	}

	seq := req.Sequence
	if seq == 0 {
		max, err := s.repo.MaxDetailSequence(ctx, bom.ID)
		if err != nil {
			return nil, fmt.Errorf("max detail sequence: %w", err)
		}
		seq = max + 1
	}

	detail := &entity.BomDetail{
		ID:          uuid.New().String(),
		BomID:       bom.ID,
		Sequence:    seq,
		ComponentID: req.ComponentID,
		Quantity:    req.Quantity,
		ScrapRate:   req.ScrapRate,
		Unit:        defaultUnit(req.Unit),
		Position:    req.Position,
		IsOptional:  req.IsOptional,
		Remarks:     req.Remarks,
	}

	if err := s.repo.CreateDetail(ctx, detail); err != nil {
		return nil, fmt.Errorf("create bom detail: %w", err)
	}
	return detail, nil
}

// RemoveDetail 删除BOM行项，行项必须属于给定BOM
func (s *BomService) RemoveDetail(ctx context.Context, tenantID, bomID, detailID string) error {
	bom, err := s.repo.FindByID(ctx, tenantID, bomID)
	if err != nil {
		return err
	}

	for _, d := range bom.Details {
		if d.ID == detailID {
			return s.repo.DeleteDetail(ctx, detailID)
		}
	}
	return fmt.Errorf("bom detail %s: %w", detailID, repository.ErrNotFound)
}

// CopyVersion 复制BOM到新版本。新文档沿用code/产品/名称/有效期/备注，
// 行项按值深拷贝并保留原序号，IsActive无条件置true。头和行项在
// 同一事务内级联写入，重复版本拒绝且不产生任何行。
func (s *BomService) CopyVersion(ctx context.Context, tenantID, sourceID, newVersion, userID string) (*entity.Bom, error) {
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
		return nil, fmt.Errorf("bom %s version %s: %w", source.Code, newVersion, repository.ErrDuplicateCode)
	}

	copied := &entity.Bom{
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

	for _, d := range source.Details {
		copied.Details = append(copied.Details, entity.BomDetail{
			ID:          uuid.New().String(),
			BomID:       copied.ID,
			Sequence:    d.Sequence,
			ComponentID: d.ComponentID,
			Quantity:    d.Quantity,
			ScrapRate:   d.ScrapRate,
			Unit:        d.Unit,
			Position:    d.Position,
			IsOptional:  d.IsOptional,
			Remarks:     d.Remarks,
		})
	}

	if err := s.repo.Create(ctx, copied); err != nil {
		return nil, fmt.Errorf("copy bom version: %w", err)
	}

	s.activityLog.Record(ctx, tenantID, "bom", copied.ID, copied.Code, "copy_version", source.Version, newVersion, userID)
	return copied, nil
}

func defaultUnit(unit string) string {
	if unit == "" {
		return "pcs"
	}
	return unit
}
