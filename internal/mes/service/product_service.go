package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/shopspring/decimal"
)

// ProductService 产品主数据服务
type ProductService struct {
	repo *repository.ProductRepository
}

func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// CreateProductRequest 创建产品请求
type CreateProductRequest struct {
	Code         string          `json:"code" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	Spec         string          `json:"spec"`
	StandardCost decimal.Decimal `json:"standard_cost"`
	SafetyStock  decimal.Decimal `json:"safety_stock"`
	Remarks      string          `json:"remarks"`
}

// UpdateProductRequest 更新产品请求，nil字段保持不变
type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	Spec         *string          `json:"spec"`
	StandardCost *decimal.Decimal `json:"standard_cost"`
	SafetyStock  *decimal.Decimal `json:"safety_stock"`
	Remarks      *string          `json:"remarks"`
}

// List 获取产品列表，filters支持keyword/category/is_active
func (s *ProductService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Product, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取产品详情
func (s *ProductService) Get(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建产品
func (s *ProductService) Create(ctx context.Context, tenantID, userID string, req *CreateProductRequest) (*entity.Product, error) {
	exists, err := s.repo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("product code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	if req.StandardCost.IsNegative() || req.SafetyStock.IsNegative() {
		return nil, fmt.Errorf("cost and stock must be non-negative: %w", ErrValidation)
	}

	p := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Code:         req.Code,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         defaultUnit(req.Unit),
		Spec:         req.Spec,
		StandardCost: req.StandardCost,
		SafetyStock:  req.SafetyStock,
		Remarks:      req.Remarks,
		IsActive:     true,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Update 更新产品
func (s *ProductService) Update(ctx context.Context, tenantID, id string, req *UpdateProductRequest) (*entity.Product, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Unit != nil {
		p.Unit = defaultUnit(*req.Unit)
	}
	if req.Spec != nil {
		p.Spec = *req.Spec
	}
	if req.StandardCost != nil {
		if req.StandardCost.IsNegative() {
			return nil, fmt.Errorf("standard_cost must be non-negative: %w", ErrValidation)
		}
		p.StandardCost = *req.StandardCost
	}
	if req.SafetyStock != nil {
		if req.SafetyStock.IsNegative() {
			return nil, fmt.Errorf("safety_stock must be non-negative: %w", ErrValidation)
		}
		p.SafetyStock = *req.SafetyStock
	}
	if req.Remarks != nil {
		p.Remarks = *req.Remarks
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete 删除产品
func (s *ProductService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// ToggleActive 切换启用标记
func (s *ProductService) ToggleActive(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = !p.IsActive
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("toggle product active: %w", err)
	}
	return p, nil
}
