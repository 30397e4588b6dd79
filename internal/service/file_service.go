package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"ai-portal-go/internal/analytics"
	"ai-portal-go/internal/model"
	"ai-portal-go/internal/repository"
	"ai-portal-go/pkg/apperr"
	"ai-portal-go/pkg/log"
	"ai-portal-go/pkg/storage"
)

// UploadInput 描述一次文件上传。
type UploadInput struct {
	OriginalName string
	Size         int64
	MimeType     string
	Reader       io.Reader
}

// FilePolicy 是文件服务需要的上传限制和分享地址。
type FilePolicy struct {
	MaxFileSize  int64
	AllowedTypes []string
	// PublicBaseURL 是对外访问地址，分享链接形如 {PublicBaseURL}/api/v1/files/{id}/public。
	PublicBaseURL string
}

// FileService 接口定义了文件管理的业务操作。
type FileService interface {
	Upload(ctx context.Context, userID uint, in UploadInput, meta ClientMeta) (*model.File, error)
	List(userID uint, skip, limit int) ([]model.File, int64, error)
	Get(userID, fileID uint) (*model.File, error)
	Delete(ctx context.Context, userID, fileID uint) error
	Download(ctx context.Context, userID, fileID uint) (*model.File, io.ReadCloser, error)
	Share(userID, fileID uint) (string, error)
	DownloadPublic(ctx context.Context, fileID uint) (*model.File, io.ReadCloser, error)
}

type fileService struct {
	fileRepo   repository.FileRepository
	store      storage.ObjectStore
	policy     FilePolicy
	allowed    map[string]struct{}
	activities ActivityService
}

// NewFileService 创建一个新的 FileService 实例。
func NewFileService(fileRepo repository.FileRepository, store storage.ObjectStore, policy FilePolicy, activities ActivityService) FileService {
	allowed := make(map[string]struct{}, len(policy.AllowedTypes))
	for _, t := range policy.AllowedTypes {
		allowed[strings.ToLower(t)] = struct{}{}
	}
	return &fileService{
		fileRepo:   fileRepo,
		store:      store,
		policy:     policy,
		allowed:    allowed,
		activities: activities,
	}
}

// fileExtension 返回小写扩展名（不含点），没有扩展名时返回空串。
func fileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// Upload 校验大小和类型后写入对象存储并保存元数据。
func (s *fileService) Upload(ctx context.Context, userID uint, in UploadInput, meta ClientMeta) (*model.File, error) {
	if in.OriginalName == "" {
		return nil, apperr.Validation("文件名不能为空")
	}
	if in.Size > s.policy.MaxFileSize {
		return nil, apperr.TooLarge("文件大小超过限制 (%dMB)", s.policy.MaxFileSize/(1024*1024))
	}
	ext := fileExtension(in.OriginalName)
	if _, ok := s.allowed[ext]; !ok {
		return nil, apperr.Validation("不支持的文件类型。支持的类型: %s", strings.Join(s.policy.AllowedTypes, ", "))
	}

	storedName := uuid.New().String() + "_" + in.OriginalName
	objectName := fmt.Sprintf("files/%d/%s", userID, storedName)
	if err := s.store.Put(ctx, objectName, in.Reader, in.Size, in.MimeType); err != nil {
		return nil, fmt.Errorf("上传文件到对象存储失败: %w", err)
	}

	file := &model.File{
		Filename:     storedName,
		OriginalName: in.OriginalName,
		FilePath:     objectName,
		FileSize:     in.Size,
		FileType:     ext,
		MimeType:     in.MimeType,
		UserID:       userID,
	}
	if err := s.fileRepo.Create(file); err != nil {
		// 元数据写入失败时清理已上传的对象
		if rmErr := s.store.Remove(ctx, objectName); rmErr != nil {
			log.Errorf("[FileService] 清理孤立对象失败: %s, error: %v", objectName, rmErr)
		}
		return nil, fmt.Errorf("保存文件记录失败: %w", err)
	}

	log.Infof("[FileService] 文件上传成功, user: %d, file: %s, size: %d", userID, in.OriginalName, in.Size)
	recordQuietly(ctx, s.activities, userID, analytics.ActivityFileUpload, in.OriginalName, meta)
	return file, nil
}

func (s *fileService) List(userID uint, skip, limit int) ([]model.File, int64, error) {
	return s.fileRepo.FindByUser(userID, skip, limit)
}

// Get 返回属于该用户的文件，其他用户的文件视为不存在。
func (s *fileService) Get(userID, fileID uint) (*model.File, error) {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		return nil, notFound(err, "文件不存在")
	}
	if file.UserID != userID {
		return nil, apperr.NotFound("文件不存在")
	}
	return file, nil
}

// Delete 删除对象和元数据。
func (s *fileService) Delete(ctx context.Context, userID, fileID uint) error {
	file, err := s.Get(userID, fileID)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, file.FilePath); err != nil {
		log.Warnf("[FileService] 删除对象失败，继续删除记录: %s, error: %v", file.FilePath, err)
	}
	return s.fileRepo.Delete(file.ID)
}

func (s *fileService) open(ctx context.Context, file *model.File) (*model.File, io.ReadCloser, error) {
	reader, err := s.store.Get(ctx, file.FilePath)
	if err != nil {
		log.Errorf("[FileService] 读取对象失败: %s, error: %v", file.FilePath, err)
		return nil, nil, apperr.NotFound("文件不存在或已被删除")
	}
	if err := s.fileRepo.IncrementDownloadCount(file.ID); err != nil {
		log.Errorf("[FileService] 更新下载次数失败: file=%d, error: %v", file.ID, err)
	}
	return file, reader, nil
}

// Download 打开用户自己的文件并累加下载次数，调用方负责关闭 reader。
func (s *fileService) Download(ctx context.Context, userID, fileID uint) (*model.File, io.ReadCloser, error) {
	file, err := s.Get(userID, fileID)
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, file)
}

// Share 将文件设为公开并返回分享链接。
func (s *fileService) Share(userID, fileID uint) (string, error) {
	file, err := s.Get(userID, fileID)
	if err != nil {
		return "", err
	}
	if !file.IsPublic {
		file.IsPublic = true
		if err := s.fileRepo.Update(file); err != nil {
			return "", fmt.Errorf("更新文件分享状态失败: %w", err)
		}
	}
	return fmt.Sprintf("%s/api/v1/files/%d/public", strings.TrimRight(s.policy.PublicBaseURL, "/"), file.ID), nil
}

// DownloadPublic 打开已公开分享的文件，无需登录。
func (s *fileService) DownloadPublic(ctx context.Context, fileID uint) (*model.File, io.ReadCloser, error) {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		return nil, nil, notFound(err, "文件不存在或未公开分享")
	}
	if !file.IsPublic {
		return nil, nil, apperr.NotFound("文件不存在或未公开分享")
	}
	return s.open(ctx, file)
}
