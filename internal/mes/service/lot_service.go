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

// LotService 批次服务
type LotService struct {
	repo        *repository.LotRepository
	productRepo *repository.ProductRepository
}

func NewLotService(repo *repository.LotRepository, productRepo *repository.ProductRepository) *LotService {
	return &LotService{repo: repo, productRepo: productRepo}
}

// CreateLotRequest 创建批次请求
type CreateLotRequest struct {
	Code        string          `json:"code" binding:"required"`
	ProductID   string          `json:"product_id" binding:"required"`
	WorkOrderID string          `json:"work_order_id"`
	PartnerID   string          `json:"partner_id"`
	ParentLotID string          `json:"parent_lot_id"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Unit        string          `json:"unit"`
	ProducedAt  *time.Time      `json:"produced_at"`
	ExpiresAt   *time.Time      `json:"expires_at"`
	Remarks     string          `json:"remarks"`
}

// UpdateLotRequest 更新批次请求，nil字段保持不变
type UpdateLotRequest struct {
	Quantity   *decimal.Decimal `json:"quantity"`
	Unit       *string          `json:"unit"`
	ProducedAt *time.Time       `json:"produced_at"`
	ExpiresAt  *time.Time       `json:"expires_at"`
	Remarks    *string          `json:"remarks"`
}

// List 获取批次列表，filters支持product_id/work_order_id/keyword
func (s *LotService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Lot, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取批次详情
func (s *LotService) Get(ctx context.Context, tenantID, id string) (*entity.Lot, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建批次
func (s *LotService) Create(ctx context.Context, tenantID, userID string, req *CreateLotRequest) (*entity.Lot, error) {
	exists, err := s.repo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("lot code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	if _, err := s.productRepo.FindByID(ctx, tenantID, req.ProductID); err != nil {
		return nil, fmt.Errorf("product %s: %w", req.ProductID, err)
	}
	if req.Quantity.IsNegative() {
		return nil, fmt.Errorf("quantity must be non-negative: %w", ErrValidation)
	}
	if req.ParentLotID != "" {
		if _, err := s.repo.FindByID(ctx, tenantID, req.ParentLotID); err != nil {
			return nil, fmt.Errorf("parent lot %s: %w", req.ParentLotID, err)
		}
	}

	lot := &entity.Lot{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Code:        req.Code,
		ProductID:   req.ProductID,
		WorkOrderID: req.WorkOrderID,
		PartnerID:   req.PartnerID,
		ParentLotID: req.ParentLotID,
		Quantity:    req.Quantity,
		Unit:        defaultUnit(req.Unit),
		ProducedAt:  req.ProducedAt,
		ExpiresAt:   req.ExpiresAt,
		Remarks:     req.Remarks,
		IsActive:    true,
		CreatedBy:   userID,
	}

	if err := s.repo.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}
	return lot, nil
}

// Update 更新批次
func (s *LotService) Update(ctx context.Context, tenantID, id string, req *UpdateLotRequest) (*entity.Lot, error) {
	lot, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if req.Quantity.IsNegative() {
			return nil, fmt.Errorf("quantity must be non-negative: %w", ErrValidation)
		}
		lot.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		lot.Unit = defaultUnit(*req.Unit)
	}
	if req.ProducedAt != nil {
		lot.ProducedAt = req.ProducedAt
	}
	if req.ExpiresAt != nil {
		lot.ExpiresAt = req.ExpiresAt
	}
	if req.Remarks != nil {
		lot.Remarks = *req.Remarks
	}

	if err := s.repo.Update(ctx, lot); err != nil {
		return nil, fmt.Errorf("update lot: %w", err)
	}
	return lot, nil
}

// Delete 删除批次
func (s *LotService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// Children 列出直接子批次
func (s *LotService) Children(ctx context.Context, tenantID, id string) ([]entity.Lot, error) {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return s.repo.FindChildren(ctx, tenantID, id)
}

// Genealogy 沿ParentLotID向上追溯谱系链，包含自身，最多回溯32层防止环。
func (s *LotService) Genealogy(ctx context.Context, tenantID, id string) ([]entity.Lot, error) {
	chain := make([]entity.Lot, 0, 4)
	cur := id
	for i := 0; i < 32 && cur != ""; i++ {
		lot, err := s.repo.FindByID(ctx, tenantID, cur)
		if err != nil {
			if len(chain) > 0 {
				break // 父批次已删除，链到此为止
			}
			return nil, err
		}
		chain = append(chain, *lot)
		cur = lot.ParentLotID
	}
	return chain, nil
}
