package unpack

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"novelpack/internal/model/run"
	httputil "novelpack/internal/pkg/http"
	runrepo "novelpack/internal/repository/run"
)

// ListRunsRequest 处理记录列表请求
type ListRunsRequest struct {
	Source string `form:"source"`                                                    // 按记录文件路径过滤
	Status string `form:"status" binding:"omitempty,oneof=running succeeded failed"` // 按状态过滤
	Limit  int64  `form:"limit" binding:"omitempty,min=1,max=500"`                   // 条数
}

// ListRunsResponseData 处理记录列表响应数据
type ListRunsResponseData struct {
	Runs  []*run.Run `json:"runs"`
	Total int        `json:"total"`
}

// ListRuns 处理记录列表
// @Summary      处理记录列表
// @Description  按开始时间倒序列出最近的处理记录
// @Tags         分块处理
// @Produce      json
// @Param        source  query     string  false  "记录文件路径"
// @Param        status  query     string  false  "状态 running/succeeded/failed"
// @Param        limit   query     int     false  "条数，默认 50"
// @Success      200     {object}  httputil.SuccessResponse{data=ListRunsResponseData}  "成功响应"
// @Failure      400     {object}  ErrorResponse  "请求参数错误"
// @Failure      503     {object}  ErrorResponse  "未配置 MongoDB"
// @Router       /api/v1/runs [get]
func (h *Handler) ListRuns(c *gin.Context) {
	if h.runRepo == nil {
		c.JSON(http.StatusServiceUnavailable, httputil.NewErrorResponse(50301, "Run history is not enabled"))
		return
	}

	var req ListRunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40001, "Invalid query", err.Error()))
		return
	}

	source := req.Source
	if source != "" {
		resolved, err := h.resolvePath(source)
		if err != nil {
			c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40003, "Invalid source", err.Error()))
			return
		}
		source = resolved
	}

	runs, err := h.runRepo.List(c.Request.Context(), runrepo.ListFilter{
		SourcePath: source,
		Status:     run.Status(req.Status),
		Limit:      req.Limit,
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(50001, "Failed to list runs", err.Error()))
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", ListRunsResponseData{
		Runs:  runs,
		Total: len(runs),
	}))
}

// GetRunRequest 获取处理记录请求
type GetRunRequest struct {
	RunID string `uri:"id" binding:"required"`
}

// GetRun 获取处理记录
// @Summary      获取处理记录
// @Tags         分块处理
// @Produce      json
// @Param        id   path      string  true  "处理记录ID"
// @Success      200  {object}  httputil.SuccessResponse{data=run.Run}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "记录不存在"
// @Failure      503  {object}  ErrorResponse  "未配置 MongoDB"
// @Router       /api/v1/runs/{id} [get]
func (h *Handler) GetRun(c *gin.Context) {
	if h.runRepo == nil {
		c.JSON(http.StatusServiceUnavailable, httputil.NewErrorResponse(50301, "Run history is not enabled"))
		return
	}

	var req GetRunRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.NewErrorResponse(40001, "Invalid id", err.Error()))
		return
	}

	r, err := h.runRepo.FindByID(c.Request.Context(), req.RunID)
	if err != nil {
		if errors.Is(err, runrepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, httputil.NewErrorResponse(40402, "Run not found"))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, httputil.NewErrorResponse(50001, "Failed to get run", err.Error()))
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", r))
}
