package unpack

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"novelpack/internal/model/novel"
	httputil "novelpack/internal/pkg/http"
	"novelpack/internal/pkg/noveltools"
)

// UnpackRequest 分块请求
type UnpackRequest struct {
	Path      string `json:"path" binding:"required"` // 记录文件路径
	ChunkSize int    `json:"chunk_size"`              // 每个分块的章节数，0 使用服务默认值
}

// Unpack 处理一个记录文件
// @Summary      分块处理记录文件
// @Description  把一部小说的 JSON Lines 记录文件按章节数切分为文本文件
// @Tags         分块处理
// @Accept       json
// @Produce      json
// @Param        request  body      UnpackRequest  true  "分块请求"
// @Success      200      {object}  httputil.SuccessResponse{data=run.Run}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      404      {object}  ErrorResponse  "文件不存在"
// @Failure      422      {object}  ErrorResponse  "记录内容无效"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/unpack [post]
func (h *Handler) Unpack(c *gin.Context) {
	var req UnpackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40001, "Invalid request body", err.Error()))
		return
	}
	if req.ChunkSize < 0 {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40002, "Invalid chunk_size", noveltools.ErrInvalidChunkSize.Error()))
		return
	}

	path, err := h.resolvePath(req.Path)
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40003, "Invalid path", err.Error()))
		return
	}

	svc := h.unpackService
	if req.ChunkSize > 0 && req.ChunkSize != svc.Options().ChunkSize {
		if svc, err = svc.WithChunkSize(req.ChunkSize); err != nil {
			c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40002, "Invalid chunk_size", err.Error()))
			return
		}
	}

	r, err := svc.ProcessFile(c.Request.Context(), path)
	if err != nil {
		_ = c.Error(err)
		switch {
		case r == nil && errors.Is(err, fs.ErrNotExist):
			c.JSON(http.StatusNotFound, httputil.NewErrorResponse(40401, "Record file not found", err.Error()))
		case r == nil:
			c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40004, "Invalid record file", err.Error()))
		case errors.Is(err, novel.ErrMissingField), errors.Is(err, novel.ErrInvalidField):
			c.JSON(http.StatusUnprocessableEntity, httputil.NewErrorResponse(42201, "Invalid record", err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(50001, "Unpack failed", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", r))
}
