package handler

import (
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/model"
	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/log"
	"ai-portal-go/pkg/response"
)

// FileHandler 负责处理文件上传、下载和分享请求。
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler 创建一个新的 FileHandler 实例。
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload 处理 multipart 文件上传，表单字段名为 file。
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "请选择要上传的文件")
		return
	}
	src, err := header.Open()
	if err != nil {
		log.Error("Upload: 打开上传文件失败", err)
		response.Fail(c, http.StatusBadRequest, "无法读取上传的文件")
		return
	}
	defer src.Close()

	file, err := h.fileService.Upload(c.Request.Context(), currentUser(c).ID, service.UploadInput{
		OriginalName: header.Filename,
		Size:         header.Size,
		MimeType:     header.Header.Get("Content-Type"),
		Reader:       src,
	}, clientMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "文件上传成功", file)
}

// List 分页返回当前用户的文件。
func (h *FileHandler) List(c *gin.Context) {
	skip, limit, ok := pagination(c)
	if !ok {
		return
	}
	files, total, err := h.fileService.List(currentUser(c).ID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取文件列表成功", gin.H{"files": files, "total": total, "skip": skip, "limit": limit})
}

// Get 返回单个文件的元数据。
func (h *FileHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	file, err := h.fileService.Get(currentUser(c).ID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取文件信息成功", file)
}

// Delete 删除文件及其对象。
func (h *FileHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.fileService.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "文件删除成功", nil)
}

// Download 以附件形式返回当前用户的文件内容。
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	file, reader, err := h.fileService.Download(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	stream(c, file, reader)
}

// Share 将文件设为公开并返回分享链接。
func (h *FileHandler) Share(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	url, err := h.fileService.Share(currentUser(c).ID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "文件分享成功", gin.H{"share_url": url})
}

// DownloadPublic 下载已公开分享的文件，无需登录。
func (h *FileHandler) DownloadPublic(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	file, reader, err := h.fileService.DownloadPublic(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	stream(c, file, reader)
}

func stream(c *gin.Context, file *model.File, reader io.ReadCloser) {
	defer reader.Close()
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.OriginalName})
	c.DataFromReader(http.StatusOK, file.FileSize, contentType, reader, map[string]string{
		"Content-Disposition": disposition,
	})
}
