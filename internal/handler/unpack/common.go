package unpack

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	httputil "novelpack/internal/pkg/http"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

var errOutsideRoot = errors.New("path is outside the data root")

// resolvePath 把请求中的路径解析为绝对路径
// 配置了 dataRoot 时，相对路径基于 dataRoot，且结果不能逃出 dataRoot
func (h *Handler) resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.New("path is required")
	}
	if h.dataRoot == "" {
		return filepath.Abs(p)
	}

	root, err := filepath.Abs(h.dataRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data root: %w", err)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	p = filepath.Clean(p)

	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errOutsideRoot
	}
	return p, nil
}
