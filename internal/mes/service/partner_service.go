package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
)

// PartnerService 往来单位服务（供应商/客户）
type PartnerService struct {
	repo *repository.PartnerRepository
}

func NewPartnerService(repo *repository.PartnerRepository) *PartnerService {
	return &PartnerService{repo: repo}
}

// CreatePartnerRequest 创建往来单位请求
type CreatePartnerRequest struct {
	Code         string `json:"code" binding:"required"`
	Type         string `json:"type" binding:"required,oneof=SUPPLIER CUSTOMER"`
	Name         string `json:"name" binding:"required"`
	ShortName    string `json:"short_name"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	TaxID        string `json:"tax_id"`
	PaymentTerms string `json:"payment_terms"`
	Remarks      string `json:"remarks"`
}

// UpdatePartnerRequest 更新往来单位请求，nil字段保持不变
type UpdatePartnerRequest struct {
	Name         *string `json:"name"`
	ShortName    *string `json:"short_name"`
	ContactName  *string `json:"contact_name"`
	ContactPhone *string `json:"contact_phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	TaxID        *string `json:"tax_id"`
	PaymentTerms *string `json:"payment_terms"`
	Remarks      *string `json:"remarks"`
}

// List 获取往来单位列表，filters支持type/keyword/is_active
func (s *PartnerService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Partner, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取往来单位详情
func (s *PartnerService) Get(ctx context.Context, tenantID, id string) (*entity.Partner, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建往来单位
func (s *PartnerService) Create(ctx context.Context, tenantID, userID string, req *CreatePartnerRequest) (*entity.Partner, error) {
	exists, err := s.repo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("partner code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	p := &entity.Partner{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Code:         req.Code,
		Type:         req.Type,
		Name:         req.Name,
		ShortName:    req.ShortName,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Email:        req.Email,
		Address:      req.Address,
		TaxID:        req.TaxID,
		PaymentTerms: req.PaymentTerms,
		Remarks:      req.Remarks,
		IsActive:     true,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create partner: %w", err)
	}
	return p, nil
}

// Update 更新往来单位（类型不可变）
func (s *PartnerService) Update(ctx context.Context, tenantID, id string, req *UpdatePartnerRequest) (*entity.Partner, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.ShortName != nil {
		p.ShortName = *req.ShortName
	}
	if req.ContactName != nil {
		p.ContactName = *req.ContactName
	}
	if req.ContactPhone != nil {
		p.ContactPhone = *req.ContactPhone
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.TaxID != nil {
		p.TaxID = *req.TaxID
	}
	if req.PaymentTerms != nil {
		p.PaymentTerms = *req.PaymentTerms
	}
	if req.Remarks != nil {
		p.Remarks = *req.Remarks
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update partner: %w", err)
	}
	return p, nil
}

// Delete 删除往来单位
func (s *PartnerService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// ToggleActive 切换启用标记
func (s *PartnerService) ToggleActive(ctx context.Context, tenantID, id string) (*entity.Partner, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = !p.IsActive
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("toggle partner active: %w", err)
	}
	return p, nil
}
