package entity

import "time"

// ActivityLog 操作日志，追加写入
type ActivityLog struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	TenantID   string `json:"tenant_id" gorm:"size:64;not null;index"`
	EntityType string `json:"entity_type" gorm:"size:50;not null;index:idx_activity_entity"` // work_order/work_result/inspection_action/bom/routing等
	EntityID   string `json:"entity_id" gorm:"size:36;not null;index:idx_activity_entity"`
	EntityCode string `json:"entity_code" gorm:"size:64"`

	Action     string `json:"action" gorm:"size:50;not null"` // create/update/delete/status_change/copy_version等
	FromStatus string `json:"from_status" gorm:"size:20"`
	ToStatus   string `json:"to_status" gorm:"size:20"`

	Content  string `json:"content" gorm:"type:text"`
	Metadata JSONB  `json:"metadata" gorm:"type:jsonb"`

	OperatorID string    `json:"operator_id" gorm:"size:36"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "mes_activity_logs"
}

// Attachment 附件元数据，文件本体存MinIO
type Attachment struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	TenantID   string    `json:"tenant_id" gorm:"size:64;not null;index"`
	EntityType string    `json:"entity_type" gorm:"size:50;index:idx_attachment_entity"`
	EntityID   string    `json:"entity_id" gorm:"size:36;index:idx_attachment_entity"`
	FileName   string    `json:"file_name" gorm:"size:256;not null"`
	ObjectKey  string    `json:"object_key" gorm:"size:512;not null"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type" gorm:"size:128"`
	UploadedBy string    `json:"uploaded_by" gorm:"size:36"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "mes_attachments"
}
