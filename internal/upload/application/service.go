// Package application 文件上传服务：进件材料的本地存储
package application

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	onboarding "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/logger"
)

// allowedMIMETypes 允许上传的文件类型
var allowedMIMETypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// UploadService 上传应用服务
type UploadService struct {
	baseDir string
	maxSize int64
}

// NewUploadService 创建上传服务，maxSizeMB 为单文件大小上限
func NewUploadService(baseDir string, maxSizeMB int) *UploadService {
	if baseDir == "" {
		baseDir = "uploads"
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &UploadService{baseDir: baseDir, maxSize: int64(maxSizeMB) << 20}
}

// MaxSize 单文件大小上限，字节
func (s *UploadService) MaxSize() int64 { return s.maxSize }

// BaseDir 上传根目录
func (s *UploadService) BaseDir() string { return s.baseDir }

// Save 校验并保存上传文件，返回可对外访问的相对 URL
func (s *UploadService) Save(ctx context.Context, merchantID, step string, file *multipart.FileHeader) (string, error) {
	if merchantID == "" {
		return "", apperr.New(apperr.KindValidation, "Merchant ID is required")
	}
	kind, err := onboarding.ParseStepKind(step)
	if err != nil {
		return "", err
	}
	if file.Size > s.maxSize {
		return "", apperr.Newf(apperr.KindValidation, "File too large. Maximum size is %dMB", s.maxSize>>20)
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedMIMETypes[contentType] {
		return "", apperr.Newf(apperr.KindValidation, "File type %s is not allowed", contentType)
	}

	dir := filepath.Join(s.baseDir, merchantID, kind.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to create upload directory", err)
	}

	name := uniqueFilename(file.Filename)
	dst := filepath.Join(dir, name)
	if err := copyUpload(file, dst); err != nil {
		return "", err
	}

	url := "/" + filepath.ToSlash(filepath.Join(s.baseDir, merchantID, kind.String(), name))
	logger.Info(ctx, "file uploaded", "merchant_id", merchantID, "step", kind.String(), "file", name, "size", file.Size)
	return url, nil
}

func copyUpload(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to open uploaded file", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to create destination file", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to write uploaded file", err)
	}
	return nil
}

// uniqueFilename 以随机后缀避免同名覆盖，保留原扩展名
func uniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = sanitize(base)
	return fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext)
}

// sanitize 去掉文件名中的路径分隔与特殊字符
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
