package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"novelpack/internal/app"
	"novelpack/internal/config"
	"novelpack/internal/pkg/jwt"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 7080, Mode: "test"},
		Chunk:  config.ChunkConfig{Size: 10},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := New(cfg, a)
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func get(srv *Server, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestServer(t *testing.T) {
	Convey("Server 路由", t, func() {
		Convey("缺少依赖时创建失败", func() {
			_, err := New(testConfig(), nil)
			So(err, ShouldNotBeNil)
		})

		Convey("未配置 jwt_secret 时 API 不需要认证", func() {
			srv := newTestServer(t, testConfig())

			So(get(srv, "/health", "").Code, ShouldEqual, http.StatusOK)
			So(get(srv, "/ready", "").Code, ShouldEqual, http.StatusOK)
			So(get(srv, "/api/v1/library?dir="+t.TempDir(), "").Code, ShouldEqual, http.StatusOK)
			So(get(srv, "/api/v1/runs", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(get(srv, "/swagger/doc.json", "").Code, ShouldEqual, http.StatusOK)
		})

		Convey("配置了 jwt_secret 时 API 需要 Token", func() {
			cfg := testConfig()
			cfg.Auth.JWTSecret = "secret"
			srv := newTestServer(t, cfg)

			So(get(srv, "/health", "").Code, ShouldEqual, http.StatusOK)
			So(get(srv, "/api/v1/library?dir="+t.TempDir(), "").Code, ShouldEqual, http.StatusUnauthorized)

			j, err := jwt.NewJWT("secret", time.Hour)
			So(err, ShouldBeNil)
			token, err := j.GenerateToken("ci-bot", "")
			So(err, ShouldBeNil)
			So(get(srv, "/api/v1/library?dir="+t.TempDir(), token).Code, ShouldEqual, http.StatusOK)
		})
	})
}
