package repository

import (
	"context"
	"errors"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"gorm.io/gorm"
)

// AttachmentRepository 附件元数据仓库
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// FindByID 根据ID查找附件
func (r *AttachmentRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Attachment, error) {
	var attachment entity.Attachment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// FindByEntity 查询某实体的附件
func (r *AttachmentRepository) FindByEntity(ctx context.Context, tenantID, entityType, entityID string) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

// Create 创建附件元数据
func (r *AttachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// Delete 删除附件元数据
func (r *AttachmentRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entity.Attachment{}).Error
}
