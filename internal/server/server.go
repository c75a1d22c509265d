package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "novelpack/docs"
	"novelpack/internal/app"
	"novelpack/internal/config"
	"novelpack/internal/handler"
	unpackHandler "novelpack/internal/handler/unpack"
	"novelpack/internal/pkg/jwt"
	"novelpack/internal/server/middleware"
)

// shutdownTimeout 优雅关闭的最长等待时间
const shutdownTimeout = 30 * time.Second

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	app    *app.App
}

// New 创建服务器实例
func New(cfg *config.Config, a *app.App) (*Server, error) {
	if a == nil || a.Unpack == nil || a.Library == nil {
		return nil, errors.New("unpack and library services are required")
	}

	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &Server{
		cfg:    cfg,
		engine: gin.New(),
		app:    a,
	}
	if err := srv.setupRoutes(); err != nil {
		return nil, err
	}
	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() error {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())

	// 健康检查
	deps := map[string]handler.Pinger{}
	if s.app.Mongo != nil {
		deps["mongo"] = s.app.Mongo
	}
	if s.app.Redis != nil {
		deps["redis"] = s.app.Redis
	}
	healthHandler := handler.NewHealthHandler(deps)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := s.engine.Group("/api/v1")
	if s.cfg.Auth.JWTSecret != "" {
		jwtUtil, err := jwt.NewJWT(s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenExpiry)
		if err != nil {
			return fmt.Errorf("failed to init jwt: %w", err)
		}
		v1.Use(middleware.Auth(jwtUtil))
	} else {
		log.Warn().Msg("auth.jwt_secret not configured, API is not protected")
	}

	unpackHdl := unpackHandler.NewHandler(s.app.Unpack, s.app.Library, s.app.RunRepo, s.cfg.Server.DataRoot)
	{
		v1.POST("/unpack", unpackHdl.Unpack)
		v1.GET("/runs", unpackHdl.ListRuns)
		v1.GET("/runs/:id", unpackHdl.GetRun)
		v1.GET("/library", unpackHdl.ListLibrary)
	}
	return nil
}

// Run 启动服务器，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
