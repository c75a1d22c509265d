package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotFound 文件不存在
var ErrNotFound = errors.New("file not found")

// ContentTypeText 分块文本文件的 Content-Type
const ContentTypeText = "text/plain; charset=utf-8"

// Storage 分块输出存储接口
// key 使用 "/" 分隔的相对路径，如 "novels_text/Title/1-10 Title.txt"
type Storage interface {
	// Upload 写入文件，已存在时覆盖；写入失败时不留下不完整的文件
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)

	// Download 读取文件，不存在时返回 ErrNotFound
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetPresignedDownloadURL 获取预签名下载URL
	GetPresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// Delete 删除文件，不存在时视为成功
	Delete(ctx context.Context, key string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// GetFileInfo 获取文件信息，不存在时返回 ErrNotFound
	GetFileInfo(ctx context.Context, key string) (*FileInfo, error)

	// GetStorageType 获取存储类型
	GetStorageType() string
}

// FileInfo 文件信息
type FileInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // 本地文件系统
	StorageTypeOSS   StorageType = "oss"   // 阿里云OSS
)

// CleanKey 统一 key 格式：反斜杠转为 "/"，去掉开头的 "/"，".." 不会越过根目录
// 返回空字符串表示 key 为空
func CleanKey(key string) string {
	key = strings.ReplaceAll(key, "\\", "/")
	key = path.Clean("/" + key)
	key = strings.TrimPrefix(key, "/")
	if key == "" || key == "." {
		return ""
	}
	return key
}
