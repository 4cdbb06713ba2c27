package handler

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// 单文件上传大小上限
const maxUploadSize = 50 << 20 // 50MB

// AttachmentHandler 附件处理器
type AttachmentHandler struct {
	svc *service.AttachmentService
}

func NewAttachmentHandler(svc *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// ListByEntity 查询某实体的附件
// GET /attachments?entity_type=gauge_calibration&entity_id=xxx
func (h *AttachmentHandler) ListByEntity(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		BadRequest(c, "entity_type and entity_id are required")
		return
	}

	attachments, err := h.svc.ListByEntity(c.Request.Context(), GetTenantID(c), entityType, entityID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": attachments})
}

// Upload 上传附件，multipart表单字段: file/entity_type/entity_id
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		BadRequest(c, "file too large")
		return
	}

	entityType := c.PostForm("entity_type")
	entityID := c.PostForm("entity_id")
	if entityType == "" || entityID == "" {
		BadRequest(c, "entity_type and entity_id are required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "open upload: "+err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.svc.Upload(c.Request.Context(), GetTenantID(c), GetUserID(c),
		entityType, entityID, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, attachment)
}

// Download 下载附件
func (h *AttachmentHandler) Download(c *gin.Context) {
	object, attachment, err := h.svc.Download(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	defer object.Close()

	c.Header("Content-Type", attachment.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, attachment.FileName))
	io.Copy(c.Writer, object)
}

// Delete 删除附件
func (h *AttachmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}
