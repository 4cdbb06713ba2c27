package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// JSONB jsonb字段类型
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// AutoMigrate 自动迁移所有MES表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 组织与权限
		&User{},
		&Role{},
		&Permission{},
		&Site{},
		&Department{},

		// 基础数据
		&Partner{},
		&Product{},
		&Bom{},
		&BomDetail{},
		&ProcessRouting{},
		&RoutingStep{},

		// 生产
		&WorkOrder{},
		&WorkResult{},
		&Lot{},

		// 质量
		&Inspection{},
		&InspectionAction{},
		&Gauge{},
		&GaugeCalibration{},

		// 设备
		&Equipment{},
		&MaintenanceOrder{},

		// 通用
		&ActivityLog{},
		&Attachment{},
	)
}
