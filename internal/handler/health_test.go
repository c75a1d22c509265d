package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func serve(h *HealthHandler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthHandler(t *testing.T) {
	Convey("HealthHandler", t, func() {
		Convey("health 总是返回 ok", func() {
			w := serve(NewHealthHandler(nil), "/health")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("没有依赖时就绪", func() {
			w := serve(NewHealthHandler(map[string]Pinger{"mongo": nil}), "/ready")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("依赖可用时就绪", func() {
			w := serve(NewHealthHandler(map[string]Pinger{"mongo": fakePinger{}}), "/ready")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"mongo":"ok"`)
		})

		Convey("依赖不可用时返回 503", func() {
			w := serve(NewHealthHandler(map[string]Pinger{
				"mongo": fakePinger{},
				"redis": fakePinger{err: errors.New("connection refused")},
			}), "/ready")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldContainSubstring, "connection refused")
		})
	})
}
