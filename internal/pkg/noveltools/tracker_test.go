package noveltools

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChunkState(t *testing.T) {
	Convey("ChunkState 边界判定", t, func() {
		Convey("初始边界", func() {
			s, err := NewChunkState(10)
			So(err, ShouldBeNil)
			So(s.StartModulo, ShouldEqual, 1)
			So(s.EndModulo, ShouldEqual, 0)

			s, err = NewChunkState(1)
			So(err, ShouldBeNil)
			So(s.StartModulo, ShouldEqual, 0)
			So(s.EndModulo, ShouldEqual, 0)
		})

		Convey("非正数 chunk size", func() {
			_, err := NewChunkState(0)
			So(errors.Is(err, ErrInvalidChunkSize), ShouldBeTrue)
		})

		Convey("起始和结束边界", func() {
			s, _ := NewChunkState(3)
			So(s.Next(1, 7), ShouldResemble, Decision{Start: true})
			So(s.CurrentChunkStart, ShouldEqual, 1)
			So(s.Next(2, 7), ShouldResemble, Decision{})
			So(s.Next(3, 7), ShouldResemble, Decision{Flush: true})
			So(s.Next(4, 7), ShouldResemble, Decision{Start: true})
			So(s.CurrentChunkStart, ShouldEqual, 4)
			So(s.Next(5, 7), ShouldResemble, Decision{})
			So(s.Next(6, 7), ShouldResemble, Decision{Flush: true})
			So(s.Next(7, 7), ShouldResemble, Decision{Start: true, Flush: true})
			So(s.Finish(), ShouldBeFalse)
		})

		Convey("跳过的章节不在起始边界时边界不变", func() {
			s, _ := NewChunkState(10)
			s.Skip(5)
			So(s.StartModulo, ShouldEqual, 1)
			So(s.EndModulo, ShouldEqual, 0)
		})

		Convey("跳过起始边界上的章节时两个边界一起后移", func() {
			for size := 2; size <= 12; size++ {
				s, _ := NewChunkState(size)
				for n := 1; n <= 3*size; n++ {
					if n%size == s.StartModulo && n%3 == 0 {
						s.Skip(n)
					}
					So(((s.StartModulo-s.EndModulo)%size+size)%size, ShouldEqual, 1%size)
				}
			}

			s, _ := NewChunkState(10)
			s.Skip(1)
			So(s.StartModulo, ShouldEqual, 2)
			So(s.EndModulo, ShouldEqual, 1)
		})

		Convey("边界回绕", func() {
			s, _ := NewChunkState(3)
			s.StartModulo, s.EndModulo = 2, 1
			s.Skip(2)
			So(s.StartModulo, ShouldEqual, 0)
			So(s.EndModulo, ShouldEqual, 2)
		})

		Convey("未结束分块遇到起始边界时先输出", func() {
			s, _ := NewChunkState(10)
			s.Next(8, 20)
			s.Next(9, 20)
			d := s.Next(11, 20)
			So(d.FlushBefore, ShouldBeTrue)
			So(d.Start, ShouldBeTrue)
			So(s.CurrentChunkStart, ShouldEqual, 11)
		})

		Convey("起始章节号只作用于第一个分块", func() {
			s, _ := NewChunkState(10)
			s.SetStartChapter(3)
			d := s.Next(5, 30)
			So(d.Start, ShouldBeTrue)
			So(s.CurrentChunkStart, ShouldEqual, 3)

			s.Next(10, 30)
			s.Next(13, 30)
			So(s.CurrentChunkStart, ShouldEqual, 13)
		})

		Convey("流结束时报告未输出的分块", func() {
			s, _ := NewChunkState(10)
			s.Next(1, 12)
			So(s.Finish(), ShouldBeTrue)
			So(s.Finish(), ShouldBeFalse)
		})
	})
}
