package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"novelpack/internal/config"
	"novelpack/internal/pkg/cache"
	"novelpack/internal/pkg/mongodb"
	"novelpack/internal/pkg/storage"
	"novelpack/internal/pkg/storagefactory"
	"novelpack/internal/pkg/translate"
	runrepo "novelpack/internal/repository/run"
	"novelpack/internal/service"
)

// App 命令行和 HTTP 服务共用的依赖
type App struct {
	Mongo      *mongodb.Client   // 未配置或连接失败时为 nil
	Redis      *cache.RedisCache // 未配置或连接失败时为 nil
	Translator translate.Translator
	RunRepo    runrepo.RunRepository // Mongo 为 nil 时为 nil

	Unpack  *service.UnpackService
	Library *service.LibraryService
}

// New 按配置初始化依赖
// MongoDB 和 Redis 是可选的，连接失败只记录警告；翻译器和存储配置错误直接返回
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(ctx, &cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, run history disabled")
		} else {
			a.Mongo = client
			log.Info().Str("database", client.Database().Name()).Msg("connected to MongoDB")

			if err := mongodb.EnsureIndexes(ctx, client.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
			a.RunRepo = runrepo.NewRunRepo(client.Database())
		}
	}

	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, translation cache disabled")
		} else {
			a.Redis = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// a.Redis 为 nil 时必须传无类型的 nil
	var c translate.Cache
	if a.Redis != nil {
		c = a.Redis
	}
	tr, err := translate.New(ctx, &cfg.Translate, c)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Translator = tr

	storageFor, err := StorageProvider(ctx, &cfg.Storage)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Unpack, err = service.NewUnpackService(service.UnpackOptions{
		ChunkSize:    cfg.Chunk.Size,
		StartChapter: cfg.Chunk.StartChapter,
		SkipTitles:   cfg.Chunk.SkipTitles,
		SourceLang:   cfg.Translate.SourceLang,
	}, storageFor, tr, a.RunRepo)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Library = service.NewLibraryService(tr, cfg.Translate.SourceLang)

	return a, nil
}

// StorageProvider 根据存储配置返回每个记录文件的输出存储
// OSS 只创建一次；本地存储默认以记录文件所在目录的上级目录为根
func StorageProvider(ctx context.Context, cfg *config.StorageConfig) (service.StorageProvider, error) {
	if cfg.Type == string(storage.StorageTypeOSS) {
		st, err := storagefactory.NewStorage(ctx, cfg, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create OSS storage: %w", err)
		}
		return func(context.Context, string) (storage.Storage, error) {
			return st, nil
		}, nil
	}

	return func(ctx context.Context, sourcePath string) (storage.Storage, error) {
		return storagefactory.NewStorage(ctx, cfg, service.OutputBase(sourcePath))
	}, nil
}

// Close 关闭外部连接
func (a *App) Close(ctx context.Context) {
	if a.Mongo != nil {
		if err := a.Mongo.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis connection")
		}
	}
}
