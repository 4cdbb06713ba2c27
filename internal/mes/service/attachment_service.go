package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/minio/minio-go/v7"
)

// AttachmentService 附件服务。元数据存库，文件本体存MinIO。
type AttachmentService struct {
	repo        *repository.AttachmentRepository
	minioClient *minio.Client
	bucketName  string
}

func NewAttachmentService(repo *repository.AttachmentRepository, minioClient *minio.Client, bucketName string) *AttachmentService {
	return &AttachmentService{
		repo:        repo,
		minioClient: minioClient,
		bucketName:  bucketName,
	}
}

// ListByEntity 查询某实体的附件
func (s *AttachmentService) ListByEntity(ctx context.Context, tenantID, entityType, entityID string) ([]entity.Attachment, error) {
	return s.repo.FindByEntity(ctx, tenantID, entityType, entityID)
}

// Get 获取附件元数据
func (s *AttachmentService) Get(ctx context.Context, tenantID, id string) (*entity.Attachment, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Upload 上传附件：写入MinIO后记录元数据
func (s *AttachmentService) Upload(ctx context.Context, tenantID, userID, entityType, entityID, fileName, contentType string, reader io.Reader, fileSize int64) (*entity.Attachment, error) {
	if s.minioClient == nil {
		return nil, fmt.Errorf("storage not configured")
	}

	objectKey := fmt.Sprintf("attachments/%s/%s/%s%s",
		tenantID, time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	_, err := s.minioClient.PutObject(ctx, s.bucketName, objectKey, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	attachment := &entity.Attachment{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		EntityType: entityType,
		EntityID:   entityID,
		FileName:   fileName,
		ObjectKey:  objectKey,
		Size:       fileSize,
		MimeType:   contentType,
		UploadedBy: userID,
	}

	if err := s.repo.Create(ctx, attachment); err != nil {
		// 元数据写入失败时回收已上传的对象
		s.minioClient.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	return attachment, nil
}

// Download 下载附件，返回文件流和元数据，调用方负责关闭流
func (s *AttachmentService) Download(ctx context.Context, tenantID, id string) (io.ReadCloser, *entity.Attachment, error) {
	attachment, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}

	if s.minioClient == nil {
		return nil, attachment, fmt.Errorf("storage not configured")
	}

	object, err := s.minioClient.GetObject(ctx, s.bucketName, attachment.ObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}
	return object, attachment, nil
}

// Delete 删除附件元数据及MinIO对象
func (s *AttachmentService) Delete(ctx context.Context, tenantID, id string) error {
	attachment, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}

	if s.minioClient != nil {
		// 对象删除失败不回滚元数据，留给后台清理
		s.minioClient.RemoveObject(ctx, s.bucketName, attachment.ObjectKey, minio.RemoveObjectOptions{})
	}
	return nil
}
