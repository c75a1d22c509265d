package oss

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	. "github.com/smartystreets/goconvey/convey"
)

func TestJoinKey(t *testing.T) {
	Convey("joinKey 拼接前缀", t, func() {
		k, err := joinKey("novelpack", "novels_text/Slime/1-10 Slime.txt")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, "novelpack/novels_text/Slime/1-10 Slime.txt")

		k, err = joinKey("", "/a\\b.txt")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, "a/b.txt")

		_, err = joinKey("p", "")
		So(err, ShouldNotBeNil)
	})
}

func TestExpiry(t *testing.T) {
	Convey("预签名过期时间", t, func() {
		s := &OSSStorage{presignExpiry: 600}
		So(s.expiry(time.Hour), ShouldEqual, 10*time.Minute)
		So(s.expiry(time.Minute), ShouldEqual, time.Minute)
		So(s.expiry(0), ShouldEqual, 10*time.Minute)

		unlimited := &OSSStorage{}
		So(unlimited.expiry(0), ShouldEqual, time.Hour)
		So(unlimited.expiry(2*time.Hour), ShouldEqual, 2*time.Hour)
	})
}

func TestIsNotFound(t *testing.T) {
	Convey("isNotFound", t, func() {
		So(isNotFound(oss.ServiceError{StatusCode: http.StatusNotFound}), ShouldBeTrue)
		So(isNotFound(fmt.Errorf("wrap: %w", oss.ServiceError{StatusCode: http.StatusNotFound})), ShouldBeTrue)
		So(isNotFound(oss.ServiceError{StatusCode: http.StatusForbidden}), ShouldBeFalse)
		So(isNotFound(fmt.Errorf("timeout")), ShouldBeFalse)
	})
}

func TestFileInfoFromHeader(t *testing.T) {
	Convey("fileInfoFromHeader", t, func() {
		h := http.Header{}
		h.Set("Content-Length", "42")
		h.Set("ETag", `"abc"`)
		h.Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")

		info := fileInfoFromHeader("a.txt", h)
		So(info.Size, ShouldEqual, 42)
		So(info.ETag, ShouldEqual, "abc")
		So(info.ContentType, ShouldEqual, "application/octet-stream")
		So(info.LastModified.Year(), ShouldEqual, 2006)
	})
}
