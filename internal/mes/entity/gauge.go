package entity

import "time"

// Gauge 量检具
type Gauge struct {
	ID                 string     `json:"id" gorm:"primaryKey;size:36"`
	TenantID           string     `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_gauges_tenant_code,priority:1"`
	Code               string     `json:"code" gorm:"size:64;not null;uniqueIndex:idx_gauges_tenant_code,priority:2"`
	Name               string     `json:"name" gorm:"size:128;not null"`
	Model              string     `json:"model" gorm:"size:64"`
	SerialNo           string     `json:"serial_no" gorm:"size:64"`
	SiteID             string     `json:"site_id" gorm:"size:36;index"`
	CalibrationCycleD  int        `json:"calibration_cycle_days" gorm:"column:calibration_cycle_days;not null;default:365"`
	LastCalibratedAt   *time.Time `json:"last_calibrated_at"`
	NextCalibrationDue *time.Time `json:"next_calibration_due"`
	Remarks            string     `json:"remarks" gorm:"type:text"`
	IsActive           bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedBy          string     `json:"created_by" gorm:"size:36"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// 关联
	Calibrations []GaugeCalibration `json:"calibrations,omitempty" gorm:"foreignKey:GaugeID"`
}

func (Gauge) TableName() string {
	return "mes_gauges"
}

// GaugeCalibration 校准记录
type GaugeCalibration struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	TenantID      string    `json:"tenant_id" gorm:"size:64;not null;index"`
	GaugeID       string    `json:"gauge_id" gorm:"size:36;not null;index"`
	CalibratedAt  time.Time `json:"calibrated_at" gorm:"not null"`
	Result        string    `json:"result" gorm:"size:20;not null"` // PASSED / FAILED
	CertificateNo string    `json:"certificate_no" gorm:"size:64"`
	AttachmentID  string    `json:"attachment_id" gorm:"size:36"` // 校准证书文件
	OperatorID    string    `json:"operator_id" gorm:"size:36"`
	Remarks       string    `json:"remarks" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

func (GaugeCalibration) TableName() string {
	return "mes_gauge_calibrations"
}
