package novel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingField 记录缺少必填字段
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField 必填字段存在但无法解析
	ErrInvalidField = errors.New("invalid field")
)

// Chapter 章节实体，由一条 Record 解析得到，构造后不再修改
type Chapter struct {
	Number      int    // 章节序号，在一部小说内单调递增
	VolumeTitle string // 卷标题（可选）
	Title       string // 章节标题
	Foreword    string // 前言（可选）
	Text        string // 正文
	Afterword   string // 后记（可选）
	Current     int    // chapter_start_end 中的当前章节号
	Last        int    // chapter_start_end 中的最终章节号
}

// ParseChapter 将原始记录转换为强类型章节，缺失或非法的必填字段直接返回错误
func ParseChapter(rec *Record) (*Chapter, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: record is nil", ErrMissingField)
	}
	if rec.ChapterNumber == nil || strings.TrimSpace(string(*rec.ChapterNumber)) == "" {
		return nil, fmt.Errorf("%w: chapter_number", ErrMissingField)
	}
	if rec.ChapterTitle == nil {
		return nil, fmt.Errorf("%w: chapter_title", ErrMissingField)
	}
	if rec.ChapterText == nil {
		return nil, fmt.Errorf("%w: chapter_text", ErrMissingField)
	}
	if rec.ChapterStartEnd == nil {
		return nil, fmt.Errorf("%w: chapter_start_end", ErrMissingField)
	}

	number, err := rec.ChapterNumber.Int()
	if err != nil {
		return nil, fmt.Errorf("%w: chapter_number %q", ErrInvalidField, string(*rec.ChapterNumber))
	}
	if number <= 0 {
		return nil, fmt.Errorf("%w: chapter_number %d is not positive", ErrInvalidField, number)
	}

	current, last, err := ParseStartEnd(*rec.ChapterStartEnd)
	if err != nil {
		return nil, err
	}

	return &Chapter{
		Number:      number,
		VolumeTitle: rec.VolumeTitle,
		Title:       *rec.ChapterTitle,
		Foreword:    rec.ChapterForeword,
		Text:        *rec.ChapterText,
		Afterword:   rec.ChapterAfterword,
		Current:     current,
		Last:        last,
	}, nil
}

// ParseStartEnd 解析形如 "12/340" 的位置标记
func ParseStartEnd(marker string) (current, last int, err error) {
	parts := strings.Split(strings.TrimSpace(marker), "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: chapter_start_end %q", ErrInvalidField, marker)
	}
	current, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: chapter_start_end %q", ErrInvalidField, marker)
	}
	last, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: chapter_start_end %q", ErrInvalidField, marker)
	}
	return current, last, nil
}
