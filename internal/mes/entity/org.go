package entity

import "time"

// Site 生产基地/工厂
type Site struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	TenantID  string    `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_sites_tenant_code,priority:1"`
	Code      string    `json:"code" gorm:"size:32;not null;uniqueIndex:idx_sites_tenant_code,priority:2"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Timezone  string    `json:"timezone" gorm:"size:64"`
	Address   string    `json:"address" gorm:"size:256"`
	Remarks   string    `json:"remarks" gorm:"type:text"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Site) TableName() string {
	return "mes_sites"
}

// Department 部门实体
type Department struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	TenantID  string    `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_departments_tenant_code,priority:1"`
	Code      string    `json:"code" gorm:"size:32;not null;uniqueIndex:idx_departments_tenant_code,priority:2"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	SiteID    string    `json:"site_id" gorm:"size:36;index"`
	ParentID  string    `json:"parent_id" gorm:"size:36"`
	LeaderID  string    `json:"leader_id" gorm:"size:36"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Site     *Site        `json:"site,omitempty" gorm:"foreignKey:SiteID"`
	Children []Department `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

func (Department) TableName() string {
	return "mes_departments"
}
