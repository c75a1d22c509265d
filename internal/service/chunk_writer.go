package service

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"novelpack/internal/model/novel"
	"novelpack/internal/model/run"
	"novelpack/internal/pkg/noveltools"
	"novelpack/internal/pkg/storage"
	"novelpack/internal/pkg/translate"
)

// OutputDirSuffix 输出根目录后缀，与记录文件所在目录同级
const OutputDirSuffix = "_text"

// OutputBase 本地存储的默认根目录：记录文件所在目录的上级目录
func OutputBase(sourcePath string) string {
	return filepath.Dir(filepath.Dir(sourcePath))
}

// OutputDirName 输出根目录名："{记录文件所在目录名}_text"
func OutputDirName(sourcePath string) string {
	parent := filepath.Base(filepath.Dir(sourcePath))
	if parent == "" || parent == "." || parent == string(filepath.Separator) {
		parent = "records"
	}
	return parent + OutputDirSuffix
}

// ChunkFilename 分块文件名："{start}-{end} {标题前 30 个字符}.txt"
func ChunkFilename(rangeLabel, safeTitle string) string {
	return fmt.Sprintf("%s %s.txt", rangeLabel, noveltools.TruncateRunes(safeTitle, noveltools.MaxFilenameTitleRunes))
}

// ChunkKey 分块在存储中的 key："{dir}_text/{标题}/{文件名}"
func ChunkKey(sourcePath, safeTitle, rangeLabel string) string {
	return path.Join(OutputDirName(sourcePath), safeTitle, ChunkFilename(rangeLabel, safeTitle))
}

// ChunkWriter 把分块写入存储
// 一个 ChunkWriter 只服务一部小说，显示标题在第一次写入时计算并缓存
type ChunkWriter struct {
	storage    storage.Storage
	translator translate.Translator
	sourceLang string
	sourcePath string

	safeTitle string
}

// NewChunkWriter 创建分块写入器，translator 为 nil 时直接使用原始标题
func NewChunkWriter(st storage.Storage, tr translate.Translator, sourceLang, sourcePath string) *ChunkWriter {
	return &ChunkWriter{
		storage:    st,
		translator: tr,
		sourceLang: sourceLang,
		sourcePath: sourcePath,
	}
}

// SafeTitle 已确定的目录名，尚未写入分块时为空
func (w *ChunkWriter) SafeTitle() string {
	return w.safeTitle
}

// DisplayTitle 计算（并缓存）用作目录名和文件名的标题
func (w *ChunkWriter) DisplayTitle(ctx context.Context, meta *novel.Metadata) string {
	if w.safeTitle == "" {
		w.safeTitle = translate.SafeDisplayTitle(ctx, w.translator, meta.Title, w.sourceLang)
		log.Info().
			Str("title", meta.Title).
			Str("display_title", w.safeTitle).
			Msg("resolved output title")
	}
	return w.safeTitle
}

// WriteChunk 写出一个分块，失败时返回错误，目标文件不会被部分写入
func (w *ChunkWriter) WriteChunk(ctx context.Context, meta *novel.Metadata, chunk *noveltools.Chunk) (*run.ChunkRecord, error) {
	if chunk == nil {
		return nil, fmt.Errorf("chunk is nil")
	}
	title := w.DisplayTitle(ctx, meta)
	key := ChunkKey(w.sourcePath, title, chunk.RangeLabel)

	url, err := w.storage.Upload(ctx, key, strings.NewReader(chunk.Text), storage.ContentTypeText)
	if err != nil {
		return nil, fmt.Errorf("failed to write chunk %s: %w", chunk.RangeLabel, err)
	}

	log.Debug().
		Str("key", key).
		Str("range", chunk.RangeLabel).
		Int("chapters", chunk.Chapters).
		Int("bytes", len(chunk.Text)).
		Msg("chunk written")

	return &run.ChunkRecord{
		RangeLabel: chunk.RangeLabel,
		Key:        key,
		URL:        url,
		Chapters:   chunk.Chapters,
		Bytes:      len(chunk.Text),
	}, nil
}
