package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"novelpack/internal/model/novel"
	"novelpack/internal/pkg/jsonl"
	"novelpack/internal/pkg/storage"
	"novelpack/internal/pkg/storage/local"
	"novelpack/internal/pkg/translate"
)

// RecordFileExts 记录文件扩展名
var RecordFileExts = []string{".jl", ".jsonl"}

// CopyDirSuffix CopyRename 输出目录后缀
const CopyDirSuffix = "_txt"

// FileEntry 记录文件信息
type FileEntry struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// RenameStatus 单个文件的重命名结果
type RenameStatus string

const (
	RenameStatusDone    RenameStatus = "done"
	RenameStatusPlanned RenameStatus = "planned" // dry run
	RenameStatusSkipped RenameStatus = "skipped"
	RenameStatusFailed  RenameStatus = "failed"
)

// RenameResult 单个文件的重命名（或复制）结果
type RenameResult struct {
	Source string       `json:"source"`
	Target string       `json:"target,omitempty"`
	Status RenameStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

// IsRecordFile 是否为记录文件
func IsRecordFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range RecordFileExts {
		if ext == e {
			return true
		}
	}
	return false
}

// FindRecordFiles 递归查找目录下的记录文件，按路径排序
func FindRecordFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsRecordFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// TitleFromFile 读取第一条有效记录的小说标题
func TitleFromFile(path string) (string, error) {
	rec, err := jsonl.FirstRecord[novel.Record](path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(rec.NovelTitle), nil
}

// LibraryService 记录文件管理（列表、按标题重命名、复制）
type LibraryService struct {
	translator translate.Translator
	sourceLang string
}

// NewLibraryService 创建记录文件管理服务
func NewLibraryService(tr translate.Translator, sourceLang string) *LibraryService {
	if tr == nil {
		tr = translate.Noop{}
	}
	return &LibraryService{translator: tr, sourceLang: sourceLang}
}

// ListRecordFiles 列出目录下的记录文件及大小
func (s *LibraryService) ListRecordFiles(dir string) ([]FileEntry, error) {
	files, err := FindRecordFiles(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]FileEntry, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", f, err)
		}
		entries = append(entries, FileEntry{Path: f, Size: info.Size(), ModTime: info.ModTime()})
	}
	return entries, nil
}

// SafeTitleForFile 记录文件对应的目录名（翻译后清理，失败时回退到原始标题）
func (s *LibraryService) SafeTitleForFile(ctx context.Context, path string) (string, error) {
	title, err := TitleFromFile(path)
	if err != nil {
		return "", err
	}
	if title == "" {
		return "", fmt.Errorf("no novel title in %s", path)
	}
	return translate.SafeDisplayTitle(ctx, s.translator, title, s.sourceLang), nil
}

// Rename 把目录下的每个记录文件原地重命名为 "{标题}{扩展名}"
// 目标已存在或无法读取标题时跳过，dryRun 时只返回计划
func (s *LibraryService) Rename(ctx context.Context, dir string, dryRun bool) ([]RenameResult, error) {
	files, err := FindRecordFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]RenameResult, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := RenameResult{Source: file}

		title, err := s.SafeTitleForFile(ctx, file)
		if err != nil {
			res.Status, res.Reason = RenameStatusSkipped, err.Error()
			results = append(results, res)
			continue
		}
		res.Target = filepath.Join(filepath.Dir(file), title+filepath.Ext(file))

		switch {
		case res.Target == file:
			res.Status, res.Reason = RenameStatusSkipped, "already named"
		case exists(res.Target):
			res.Status, res.Reason = RenameStatusSkipped, "target exists"
		case dryRun:
			res.Status = RenameStatusPlanned
		default:
			if err := os.Rename(file, res.Target); err != nil {
				res.Status, res.Reason = RenameStatusFailed, err.Error()
			} else {
				res.Status = RenameStatusDone
			}
		}

		log.Info().
			Str("source", res.Source).
			Str("target", res.Target).
			Str("status", string(res.Status)).
			Str("reason", res.Reason).
			Msg("rename")
		results = append(results, res)
	}
	return results, nil
}

// CopyRename 把目录下的每个记录文件复制到 "{dir}_txt/{相对子目录}/{标题}{扩展名}"
// 目标已存在或无法读取标题时跳过
func (s *LibraryService) CopyRename(ctx context.Context, dir string) ([]RenameResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	files, err := FindRecordFiles(root)
	if err != nil {
		return nil, err
	}

	dest, err := local.NewLocalStorage(root+CopyDirSuffix, "")
	if err != nil {
		return nil, err
	}

	results := make([]RenameResult, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := RenameResult{Source: file}

		title, err := s.SafeTitleForFile(ctx, file)
		if err != nil {
			res.Status, res.Reason = RenameStatusSkipped, err.Error()
			results = append(results, res)
			continue
		}

		rel, err := filepath.Rel(root, filepath.Dir(file))
		if err != nil {
			res.Status, res.Reason = RenameStatusFailed, err.Error()
			results = append(results, res)
			continue
		}
		key := filepath.ToSlash(filepath.Join(rel, title+filepath.Ext(file)))
		res.Target = filepath.Join(dest.BasePath(), filepath.FromSlash(storage.CleanKey(key)))

		if ok, _ := dest.Exists(ctx, key); ok {
			res.Status, res.Reason = RenameStatusSkipped, "target exists"
		} else if err := copyInto(ctx, dest, key, file); err != nil {
			res.Status, res.Reason = RenameStatusFailed, err.Error()
		} else {
			res.Status = RenameStatusDone
		}

		log.Info().
			Str("source", res.Source).
			Str("target", res.Target).
			Str("status", string(res.Status)).
			Str("reason", res.Reason).
			Msg("copy rename")
		results = append(results, res)
	}
	return results, nil
}

func copyInto(ctx context.Context, dest storage.Storage, key, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = dest.Upload(ctx, key, f, "application/jsonl")
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
