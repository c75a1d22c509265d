package noveltools

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"novelpack/internal/model/novel"
)

func testChapter(number, last int, title string) *novel.Chapter {
	if title == "" {
		title = fmt.Sprintf("第%d話", number)
	}
	return &novel.Chapter{
		Number:  number,
		Title:   title,
		Text:    fmt.Sprintf("text-%d", number),
		Current: number,
		Last:    last,
	}
}

// runChunker 按 1..last 顺序处理章节，skip 中的章节号使用跳过标题
func runChunker(chunkSize, first, last int, skip map[int]bool) ([]*Chunk, error) {
	meta := &novel.Metadata{Title: "小説", Description: "あらすじ"}
	var chunks []*Chunk
	c, err := NewChunker(chunkSize, NewSkipPolicy(), meta, func(chunk *Chunk) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for n := first; n <= last; n++ {
		title := ""
		if skip[n] {
			title = "登場人物"
		}
		meta.LastChapterNumber = last
		if err := c.Add(testChapter(n, last, title)); err != nil {
			return nil, err
		}
	}
	if err := c.Close(); err != nil {
		return nil, err
	}
	return chunks, nil
}

func labels(chunks []*Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.RangeLabel)
	}
	return out
}

func TestChunker(t *testing.T) {
	Convey("Chunker 按 chunk size 分组章节", t, func() {
		Convey("没有跳过章节时，所有分块恰好覆盖 1..M", func() {
			for size := 1; size <= 12; size++ {
				for last := 1; last <= 35; last++ {
					chunks, err := runChunker(size, 1, last, nil)
					So(err, ShouldBeNil)

					next := 1
					total := 0
					for _, c := range chunks {
						So(c.Start, ShouldEqual, next)
						So(c.End, ShouldBeGreaterThanOrEqualTo, c.Start)
						So(c.End-c.Start+1, ShouldBeLessThanOrEqualTo, size)
						So(c.Chapters, ShouldEqual, c.End-c.Start+1)
						next = c.End + 1
						total += c.Chapters
					}
					So(next, ShouldEqual, last+1)
					So(total, ShouldEqual, last)
				}
			}
		})

		Convey("最后一个不足 chunk size 的分块也会输出", func() {
			chunks, err := runChunker(10, 1, 23, nil)
			So(err, ShouldBeNil)
			So(labels(chunks), ShouldResemble, []string{"1-10", "11-20", "21-23"})
			So(chunks[2].Chapters, ShouldEqual, 3)
		})

		Convey("跳过的章节不出现在正文中，但不破坏分组", func() {
			chunks, err := runChunker(10, 1, 14, map[int]bool{5: true})
			So(err, ShouldBeNil)
			So(labels(chunks), ShouldResemble, []string{"1-10", "11-14"})
			So(chunks[0].Chapters, ShouldEqual, 9)
			So(chunks[0].Text, ShouldNotContainSubstring, "text-5\n")
			So(chunks[0].Text, ShouldNotContainSubstring, "登場人物")
			So(chunks[0].Text, ShouldContainSubstring, "text-4\n")
			So(chunks[0].Text, ShouldContainSubstring, "text-6\n")
		})

		Convey("跳过的章节位于起始边界时，边界整体后移", func() {
			chunks, err := runChunker(10, 1, 25, map[int]bool{1: true})
			So(err, ShouldBeNil)
			So(labels(chunks), ShouldResemble, []string{"2-11", "12-21", "22-25"})
			So(strings.HasPrefix(chunks[0].Text, "2-11 小説\nあらすじ\n"), ShouldBeTrue)
		})

		Convey("跳过的章节位于结束边界时，先输出已缓冲的章节", func() {
			chunks, err := runChunker(10, 1, 14, map[int]bool{10: true})
			So(err, ShouldBeNil)
			So(labels(chunks), ShouldResemble, []string{"1-9", "11-14"})
		})

		Convey("最终章被跳过时，剩余章节在流结束时输出", func() {
			chunks, err := runChunker(10, 1, 12, map[int]bool{12: true})
			So(err, ShouldBeNil)
			So(labels(chunks), ShouldResemble, []string{"1-10", "11-11"})
		})

		Convey("chunk size 为 1 时每章一个分块", func() {
			chunks, err := runChunker(1, 1, 3, nil)
			So(err, ShouldBeNil)
			So(labels(chunks), ShouldResemble, []string{"1-1", "2-2", "3-3"})
		})

		Convey("记录从小说中途开始", func() {
			chunks, err := runChunker(10, 5, 14, nil)
			So(err, ShouldBeNil)
			So(labels(chunks), ShouldResemble, []string{"5-10", "11-14"})
		})

		Convey("设置起始章节号时首个分块使用该编号", func() {
			meta := &novel.Metadata{Title: "t", LastChapterNumber: 14}
			var chunks []*Chunk
			c, err := NewChunker(10, nil, meta, func(chunk *Chunk) error {
				chunks = append(chunks, chunk)
				return nil
			})
			So(err, ShouldBeNil)
			c.SetStartChapter(3)
			for n := 5; n <= 14; n++ {
				So(c.Add(testChapter(n, 14, "")), ShouldBeNil)
			}
			So(c.Close(), ShouldBeNil)
			So(labels(chunks), ShouldResemble, []string{"3-10", "11-14"})
			// 只改标签，首个分块仍然只包含 5..10
			So(chunks[0].Chapters, ShouldEqual, 6)
			So(chunks[0].End, ShouldEqual, 10)
			So(chunks[1].Start, ShouldEqual, 11)
		})

		Convey("只有第一个分块带标题和简介", func() {
			chunks, err := runChunker(10, 1, 31, nil)
			So(err, ShouldBeNil)
			So(len(chunks), ShouldEqual, 4)
			So(strings.HasPrefix(chunks[0].Text, "1-10 小説\nあらすじ\n"), ShouldBeTrue)
			for _, c := range chunks[1:] {
				So(strings.HasPrefix(c.Text, c.RangeLabel+" "), ShouldBeTrue)
				So(c.Text, ShouldNotContainSubstring, "あらすじ")
			}
		})

		Convey("统计跳过和输出数量", func() {
			meta := &novel.Metadata{LastChapterNumber: 4}
			c, err := NewChunker(2, nil, meta, func(*Chunk) error { return nil })
			So(err, ShouldBeNil)
			So(c.Add(testChapter(1, 4, "人物紹介")), ShouldBeNil)
			for n := 2; n <= 4; n++ {
				So(c.Add(testChapter(n, 4, "")), ShouldBeNil)
			}
			So(c.Close(), ShouldBeNil)
			So(c.Skipped(), ShouldEqual, 1)
			So(c.Emitted(), ShouldEqual, 2)
		})

		Convey("输出回调的错误会向上传递", func() {
			boom := errors.New("disk full")
			meta := &novel.Metadata{LastChapterNumber: 2}
			c, err := NewChunker(1, nil, meta, func(*Chunk) error { return boom })
			So(err, ShouldBeNil)
			So(errors.Is(c.Add(testChapter(1, 2, "")), boom), ShouldBeTrue)
		})

		Convey("chunk size 非正数时拒绝创建", func() {
			_, err := NewChunker(0, nil, nil, nil)
			So(errors.Is(err, ErrInvalidChunkSize), ShouldBeTrue)
			_, err = NewChunker(-5, nil, nil, nil)
			So(errors.Is(err, ErrInvalidChunkSize), ShouldBeTrue)
		})
	})
}
