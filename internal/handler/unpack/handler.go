package unpack

import (
	runrepo "novelpack/internal/repository/run"
	"novelpack/internal/service"
)

// Handler 分块处理模块处理器
type Handler struct {
	unpackService  *service.UnpackService
	libraryService *service.LibraryService
	runRepo        runrepo.RunRepository // 未配置 MongoDB 时为 nil
	dataRoot       string
}

// NewHandler 创建分块处理模块处理器
// dataRoot 非空时，请求中的路径必须位于该目录下
func NewHandler(
	unpackService *service.UnpackService,
	libraryService *service.LibraryService,
	runRepo runrepo.RunRepository,
	dataRoot string,
) *Handler {
	return &Handler{
		unpackService:  unpackService,
		libraryService: libraryService,
		runRepo:        runRepo,
		dataRoot:       dataRoot,
	}
}
