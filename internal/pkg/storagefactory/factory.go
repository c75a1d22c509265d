package storagefactory

import (
	"context"
	"fmt"

	"novelpack/internal/config"
	"novelpack/internal/pkg/storage"
	"novelpack/internal/pkg/storage/local"
	"novelpack/internal/pkg/storage/oss"
)

// NewStorage 根据配置创建存储实例
// 本地存储未配置 base_path 时使用 defaultBase（记录文件所在目录的上级目录）
func NewStorage(ctx context.Context, cfg *config.StorageConfig, defaultBase string) (storage.Storage, error) {
	switch cfg.Type {
	case "local", "":
		basePath, baseURL := defaultBase, ""
		if cfg.Local != nil {
			if cfg.Local.BasePath != "" {
				basePath = cfg.Local.BasePath
			}
			baseURL = cfg.Local.BaseURL
		}
		if basePath == "" {
			return nil, fmt.Errorf("local storage base path is required")
		}
		return local.NewLocalStorage(basePath, baseURL)
	case "oss":
		if cfg.OSS == nil {
			return nil, fmt.Errorf("OSS storage config is required")
		}
		return oss.NewOSSStorage(
			cfg.OSS.Endpoint,
			cfg.OSS.Bucket,
			cfg.OSS.AccessKeyID,
			cfg.OSS.AccessKeySecret,
			cfg.OSS.Prefix,
			cfg.OSS.PresignExpiry,
		)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
