package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"novelpack/internal/model/novel"
	"novelpack/internal/model/run"
	"novelpack/internal/pkg/jsonl"
	"novelpack/internal/pkg/noveltools"
	"novelpack/internal/pkg/storage"
	"novelpack/internal/pkg/translate"
	runrepo "novelpack/internal/repository/run"
)

// UnpackOptions 分块参数
type UnpackOptions struct {
	ChunkSize    int
	StartChapter int      // 首个分块范围标签的起点，只影响标签，0 表示取第一条记录
	SkipTitles   []string // 为空时使用默认跳过列表
	SourceLang   string   // 标题翻译的源语言
}

// StorageProvider 为一个记录文件提供输出存储
type StorageProvider func(ctx context.Context, sourcePath string) (storage.Storage, error)

// UnpackService 记录文件分块服务
// 每次 ProcessFile 拥有独立的分块状态，不同小说可以并发处理
type UnpackService struct {
	opts       UnpackOptions
	storageFor StorageProvider
	translator translate.Translator
	runRepo    runrepo.RunRepository
}

// NewUnpackService 创建分块服务
//
// Args:
//   - storageFor: 必需
//   - tr: 为 nil 时使用原始标题
//   - runRepo: 为 nil 时不记录处理历史
func NewUnpackService(
	opts UnpackOptions,
	storageFor StorageProvider,
	tr translate.Translator,
	runRepo runrepo.RunRepository,
) (*UnpackService, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", noveltools.ErrInvalidChunkSize, opts.ChunkSize)
	}
	if storageFor == nil {
		return nil, fmt.Errorf("storage provider is required")
	}
	if tr == nil {
		tr = translate.Noop{}
	}
	return &UnpackService{
		opts:       opts,
		storageFor: storageFor,
		translator: tr,
		runRepo:    runRepo,
	}, nil
}

// Options 当前分块参数
func (s *UnpackService) Options() UnpackOptions {
	return s.opts
}

// WithChunkSize 返回使用另一个 chunk size 的服务副本
func (s *UnpackService) WithChunkSize(size int) (*UnpackService, error) {
	opts := s.opts
	opts.ChunkSize = size
	return NewUnpackService(opts, s.storageFor, s.translator, s.runRepo)
}

// ProcessFile 处理一部小说的记录文件
// 返回的 Run 在出错时也不为 nil（路径无效时除外），记录了已写出的分块
func (s *UnpackService) ProcessFile(ctx context.Context, path string) (*run.Run, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat record file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", abs)
	}

	r := run.New(abs, s.opts.ChunkSize)
	logger := log.With().Str("run_id", r.ID).Str("path", abs).Logger()
	logger.Info().Int("chunk_size", s.opts.ChunkSize).Msg("unpack started")

	s.saveRun(ctx, r, true)
	err = s.process(ctx, abs, r)
	r.Finish(err)
	s.saveRun(context.WithoutCancel(ctx), r, false)

	level := zerolog.InfoLevel
	if err != nil {
		level = zerolog.ErrorLevel
	}
	logger.WithLevel(level).
		Err(err).
		Str("title", r.NovelTitle).
		Int("chunks", len(r.Chunks)).
		Int("chapters", r.Chapters).
		Int("skipped_chapters", r.SkippedChapters).
		Int("malformed_lines", r.MalformedLines).
		Dur("elapsed", r.Duration()).
		Msg("unpack finished")

	return r, err
}

func (s *UnpackService) process(ctx context.Context, path string, r *run.Run) error {
	st, err := s.storageFor(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to open output storage: %w", err)
	}
	r.StorageType = st.GetStorageType()

	meta := &novel.Metadata{}
	writer := NewChunkWriter(st, s.translator, s.opts.SourceLang, path)
	chunker, err := noveltools.NewChunker(s.opts.ChunkSize, noveltools.NewSkipPolicy(s.opts.SkipTitles...), meta,
		func(chunk *noveltools.Chunk) error {
			rec, err := writer.WriteChunk(ctx, meta, chunk)
			if err != nil {
				return err
			}
			r.AddChunk(*rec)
			return nil
		})
	if err != nil {
		return err
	}
	chunker.SetStartChapter(s.opts.StartChapter)

	defer func() {
		r.NovelTitle = meta.Title
		r.DisplayTitle = writer.SafeTitle()
		r.SkippedChapters = chunker.Skipped()
	}()

	onSkip := jsonl.WithSkipHandler(func(line int, err error) {
		r.MalformedLines++
		log.Debug().Err(err).Str("path", path).Int("line", line).Msg("skipped malformed line")
	})
	for entry, err := range jsonl.Records[novel.Record](path, onSkip) {
		if errors.Is(err, jsonl.ErrInvalidRecord) {
			return fmt.Errorf("%w: %w", novel.ErrInvalidField, err)
		}
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		ch, err := novel.ParseChapter(entry.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", entry.Line, err)
		}
		meta.Observe(entry.Value, ch)

		if err := chunker.Add(ch); err != nil {
			return fmt.Errorf("line %d: %w", entry.Line, err)
		}
	}

	if err := chunker.Close(); err != nil {
		return err
	}
	if chunker.Emitted() == 0 {
		log.Warn().Str("path", path).Msg("no chapters written")
	}
	return nil
}

// ProcessDirectory 处理目录下的所有记录文件（递归，按路径排序）
// 每部小说独立处理，单个文件失败不影响其他文件，所有错误合并返回
func (s *UnpackService) ProcessDirectory(ctx context.Context, dir string) ([]*run.Run, error) {
	files, err := FindRecordFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Warn().Str("dir", dir).Msg("no record files found")
	}

	start := time.Now()
	runs := make([]*run.Run, 0, len(files))
	var errs []error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		r, err := s.ProcessFile(ctx, file)
		if r != nil {
			runs = append(runs, r)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
		}
	}

	log.Info().
		Str("dir", dir).
		Int("files", len(files)).
		Int("failed", len(errs)).
		Dur("elapsed", time.Since(start)).
		Msg("directory unpack finished")
	return runs, errors.Join(errs...)
}

// saveRun 记录处理历史，失败只记录日志
func (s *UnpackService) saveRun(ctx context.Context, r *run.Run, create bool) {
	if s.runRepo == nil {
		return
	}
	var err error
	if create {
		err = s.runRepo.Create(ctx, r)
	} else {
		err = s.runRepo.Update(ctx, r)
	}
	if err != nil {
		log.Warn().Err(err).Str("run_id", r.ID).Msg("failed to save run history")
	}
}
