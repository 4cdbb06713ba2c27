package entity

import (
	"time"
)

// 通用状态
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User 用户实体。密码与令牌签发由外部身份服务负责，本系统只保存账号档案。
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	TenantID     string     `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_users_tenant_username,priority:1"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex:idx_users_tenant_username,priority:2"`
	Name         string     `json:"name" gorm:"size:64;not null"`
	Email        string     `json:"email" gorm:"size:128"`
	Mobile       string     `json:"mobile" gorm:"size:20"`
	DepartmentID string     `json:"department_id" gorm:"size:36"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`

	// 关联
	Department *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	Roles      []Role      `json:"roles,omitempty" gorm:"many2many:user_roles;"`
}

func (User) TableName() string {
	return "mes_users"
}

// Role 角色实体
type Role struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	TenantID    string    `json:"tenant_id" gorm:"size:64;not null;index;uniqueIndex:idx_roles_tenant_code,priority:1"`
	Code        string    `json:"code" gorm:"size:64;not null;uniqueIndex:idx_roles_tenant_code,priority:2"`
	Name        string    `json:"name" gorm:"size:64;not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsSystem    bool      `json:"is_system" gorm:"not null;default:false"`
	Status      string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
}

func (Role) TableName() string {
	return "mes_roles"
}

// Permission 权限实体
type Permission struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Code        string    `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:64;not null"`
	Resource    string    `json:"resource" gorm:"size:64"`
	Action      string    `json:"action" gorm:"size:32"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Permission) TableName() string {
	return "mes_permissions"
}
