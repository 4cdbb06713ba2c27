package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"gorm.io/gorm"
)

// 校准结果
const (
	CalibrationPassed = "PASSED"
	CalibrationFailed = "FAILED"
)

// GaugeService 量检具与校准服务
type GaugeService struct {
	repo *repository.GaugeRepository
	db   *gorm.DB
}

func NewGaugeService(repo *repository.GaugeRepository, db *gorm.DB) *GaugeService {
	return &GaugeService{repo: repo, db: db}
}

// CreateGaugeRequest 创建量检具请求
type CreateGaugeRequest struct {
	Code              string `json:"code" binding:"required"`
	Name              string `json:"name" binding:"required"`
	Model             string `json:"model"`
	SerialNo          string `json:"serial_no"`
	SiteID            string `json:"site_id"`
	CalibrationCycleD int    `json:"calibration_cycle_days"`
	Remarks           string `json:"remarks"`
}

// UpdateGaugeRequest 更新量检具请求，nil字段保持不变
type UpdateGaugeRequest struct {
	Name              *string `json:"name"`
	Model             *string `json:"model"`
	SerialNo          *string `json:"serial_no"`
	SiteID            *string `json:"site_id"`
	CalibrationCycleD *int    `json:"calibration_cycle_days"`
	Remarks           *string `json:"remarks"`
}

// RecordCalibrationRequest 记录校准请求
type RecordCalibrationRequest struct {
	CalibratedAt  time.Time `json:"calibrated_at" binding:"required"`
	Result        string    `json:"result" binding:"required,oneof=PASSED FAILED"`
	CertificateNo string    `json:"certificate_no"`
	AttachmentID  string    `json:"attachment_id"`
	Remarks       string    `json:"remarks"`
}

// List 获取量检具列表，filters支持search/site_id/calibration_due
func (s *GaugeService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Gauge, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取量检具详情（含校准历史）
func (s *GaugeService) Get(ctx context.Context, tenantID, id string) (*entity.Gauge, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建量检具
func (s *GaugeService) Create(ctx context.Context, tenantID, userID string, req *CreateGaugeRequest) (*entity.Gauge, error) {
	exists, err := s.repo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("gauge code %s: %w", req.Code, repository.ErrDuplicateCode)
	}

	cycle := req.CalibrationCycleD
	if cycle <= 0 {
		cycle = 365
	}

	gauge := &entity.Gauge{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		Code:              req.Code,
		Name:              req.Name,
		Model:             req.Model,
		SerialNo:          req.SerialNo,
		SiteID:            req.SiteID,
		CalibrationCycleD: cycle,
		Remarks:           req.Remarks,
		IsActive:          true,
		CreatedBy:         userID,
	}

	if err := s.repo.Create(ctx, gauge); err != nil {
		return nil, fmt.Errorf("create gauge: %w", err)
	}
	return gauge, nil
}

// Update 更新量检具。校准周期变化时按最近一次校准重算到期日。
func (s *GaugeService) Update(ctx context.Context, tenantID, id string, req *UpdateGaugeRequest) (*entity.Gauge, error) {
	gauge, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		gauge.Name = *req.Name
	}
	if req.Model != nil {
		gauge.Model = *req.Model
	}
	if req.SerialNo != nil {
		gauge.SerialNo = *req.SerialNo
	}
	if req.SiteID != nil {
		gauge.SiteID = *req.SiteID
	}
	if req.CalibrationCycleD != nil {
		if *req.CalibrationCycleD <= 0 {
			return nil, fmt.Errorf("calibration_cycle_days must be positive: %w", ErrValidation)
		}
		gauge.CalibrationCycleD = *req.CalibrationCycleD
		if gauge.LastCalibratedAt != nil {
			due := gauge.LastCalibratedAt.AddDate(0, 0, gauge.CalibrationCycleD)
			gauge.NextCalibrationDue = &due
		}
	}
	if req.Remarks != nil {
		gauge.Remarks = *req.Remarks
	}

	if err := s.repo.Update(ctx, gauge); err != nil {
		return nil, fmt.Errorf("update gauge: %w", err)
	}
	return gauge, nil
}

// Delete 删除量检具
func (s *GaugeService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// ToggleActive 切换启用标记
func (s *GaugeService) ToggleActive(ctx context.Context, tenantID, id string) (*entity.Gauge, error) {
	gauge, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	gauge.IsActive = !gauge.IsActive
	if err := s.repo.Update(ctx, gauge); err != nil {
		return nil, fmt.Errorf("toggle gauge active: %w", err)
	}
	return gauge, nil
}

// RecordCalibration 记录一次校准并在同一事务内刷新量检具的校准日期。
// 仅当本次校准时间不早于已记录的最近校准时才前移LastCalibratedAt。
func (s *GaugeService) RecordCalibration(ctx context.Context, tenantID, gaugeID, operatorID string, req *RecordCalibrationRequest) (*entity.GaugeCalibration, error) {
	cal := &entity.GaugeCalibration{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		GaugeID:       gaugeID,
		CalibratedAt:  req.CalibratedAt,
		Result:        req.Result,
		CertificateNo: req.CertificateNo,
		AttachmentID:  req.AttachmentID,
		OperatorID:    operatorID,
		Remarks:       req.Remarks,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var gauge entity.Gauge
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, gaugeID).First(&gauge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return err
		}

		if err := tx.Create(cal).Error; err != nil {
			return fmt.Errorf("create calibration: %w", err)
		}

		if gauge.LastCalibratedAt == nil || !req.CalibratedAt.Before(*gauge.LastCalibratedAt) {
			gauge.LastCalibratedAt = &req.CalibratedAt
			due := req.CalibratedAt.AddDate(0, 0, gauge.CalibrationCycleD)
			gauge.NextCalibrationDue = &due
			if err := tx.Omit("Calibrations").Save(&gauge).Error; err != nil {
				return fmt.Errorf("refresh gauge dates: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cal, nil
}
