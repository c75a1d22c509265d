package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"novelpack/internal/pkg/storage"
)

// OSSStorage 阿里云OSS存储
type OSSStorage struct {
	bucket        *oss.Bucket
	bucketName    string
	endpoint      string
	prefix        string
	presignExpiry int // 预签名URL过期时间上限（秒）
}

// NewOSSStorage 创建阿里云OSS存储，prefix 会加在所有对象 key 之前
func NewOSSStorage(endpoint, bucketName, accessKeyID, accessKeySecret, prefix string, presignExpiry int) (*OSSStorage, error) {
	if endpoint == "" || bucketName == "" {
		return nil, fmt.Errorf("OSS endpoint and bucket are required")
	}

	client, err := oss.New(endpoint, accessKeyID, accessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &OSSStorage{
		bucket:        bucket,
		bucketName:    bucketName,
		endpoint:      strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://"),
		prefix:        storage.CleanKey(prefix),
		presignExpiry: presignExpiry,
	}, nil
}

// Upload 上传文件，PutObject 单次请求完成，失败时不会产生不完整的对象
func (s *OSSStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return "", err
	}

	options := []oss.Option{
		oss.ContentType(contentType),
		oss.WithContext(ctx),
	}
	if err := s.bucket.PutObject(objectKey, data, options...); err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, s.endpoint, objectKey), nil
}

// Download 下载文件
func (s *OSSStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	body, err := s.bucket.GetObject(objectKey, oss.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return body, nil
}

// GetPresignedDownloadURL 获取预签名下载URL
func (s *OSSStorage) GetPresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return "", err
	}

	url, err := s.bucket.SignURL(objectKey, oss.HTTPGet, int64(s.expiry(expiresIn).Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return url, nil
}

// Delete 删除文件
func (s *OSSStorage) Delete(ctx context.Context, key string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	if err := s.bucket.DeleteObject(objectKey, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *OSSStorage) Exists(ctx context.Context, key string) (bool, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return false, err
	}
	exists, err := s.bucket.IsObjectExist(objectKey, oss.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return exists, nil
}

// GetFileInfo 获取文件信息
func (s *OSSStorage) GetFileInfo(ctx context.Context, key string) (*storage.FileInfo, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	props, err := s.bucket.GetObjectDetailedMeta(objectKey, oss.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	return fileInfoFromHeader(storage.CleanKey(key), props), nil
}

// GetStorageType 获取存储类型
func (s *OSSStorage) GetStorageType() string {
	return string(storage.StorageTypeOSS)
}

func (s *OSSStorage) objectKey(key string) (string, error) {
	return joinKey(s.prefix, key)
}

// expiry 请求的过期时间不超过配置的上限
func (s *OSSStorage) expiry(requested time.Duration) time.Duration {
	limit := time.Duration(s.presignExpiry) * time.Second
	if limit > 0 && (requested <= 0 || requested > limit) {
		return limit
	}
	if requested <= 0 {
		return time.Hour
	}
	return requested
}

func joinKey(prefix, key string) (string, error) {
	clean := storage.CleanKey(key)
	if clean == "" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	if prefix == "" {
		return clean, nil
	}
	return path.Join(prefix, clean), nil
}

func isNotFound(err error) bool {
	var svcErr oss.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.StatusCode == http.StatusNotFound
	}
	return false
}

func fileInfoFromHeader(key string, props http.Header) *storage.FileInfo {
	size, _ := strconv.ParseInt(props.Get("Content-Length"), 10, 64)

	contentType := props.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var lastModified time.Time
	if v := props.Get("Last-Modified"); v != "" {
		lastModified, _ = time.Parse(time.RFC1123, v)
	}

	return &storage.FileInfo{
		Key:          key,
		Size:         size,
		ContentType:  contentType,
		ETag:         strings.Trim(props.Get("ETag"), `"`),
		LastModified: lastModified,
	}
}
