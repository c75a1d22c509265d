package unpack

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "novelpack/internal/pkg/http"
	"novelpack/internal/service"
)

// ListLibraryRequest 记录文件列表请求
type ListLibraryRequest struct {
	Dir string `form:"dir"` // 目录，配置了 data_root 时可省略
}

// ListLibraryResponseData 记录文件列表响应数据
type ListLibraryResponseData struct {
	Dir   string              `json:"dir"`
	Files []service.FileEntry `json:"files"`
	Total int                 `json:"total"`
}

// ListLibrary 列出目录下的记录文件
// @Summary      记录文件列表
// @Description  递归列出目录下的 .jl / .jsonl 文件
// @Tags         记录文件
// @Produce      json
// @Param        dir  query     string  false  "目录"
// @Success      200  {object}  httputil.SuccessResponse{data=ListLibraryResponseData}  "成功响应"
// @Failure      400  {object}  ErrorResponse  "请求参数错误"
// @Failure      404  {object}  ErrorResponse  "目录不存在"
// @Router       /api/v1/library [get]
func (h *Handler) ListLibrary(c *gin.Context) {
	var req ListLibraryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40001, "Invalid query", err.Error()))
		return
	}
	if req.Dir == "" && h.dataRoot != "" {
		req.Dir = h.dataRoot
	}

	dir, err := h.resolvePath(req.Dir)
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40003, "Invalid dir", err.Error()))
		return
	}

	files, err := h.libraryService.ListRecordFiles(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, httputil.NewErrorResponse(40403, "Directory not found", err.Error()))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(50001, "Failed to list records", err.Error()))
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", ListLibraryResponseData{
		Dir:   dir,
		Files: files,
		Total: len(files),
	}))
}
