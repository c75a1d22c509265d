package novel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Record 爬虫写入的单行章节记录（JSON Lines 中的一行）
// 必填字段使用指针，用来区分「字段缺失」和「字段为空」
type Record struct {
	NovelTitle       string      `json:"novel_title"`
	NovelDescription string      `json:"novel_description"`
	VolumeTitle      string      `json:"volume_title"`
	ChapterTitle     *string     `json:"chapter_title"`
	ChapterForeword  string      `json:"chapter_foreword"`
	ChapterText      *string     `json:"chapter_text"`
	ChapterAfterword string      `json:"chapter_afterword"`
	ChapterNumber    *FlexString `json:"chapter_number"`
	ChapterStartEnd  *string     `json:"chapter_start_end"`
}

// FlexString 既可以是 JSON 字符串也可以是 JSON 数字的字段
// 爬虫不同版本对 chapter_number 的输出类型不一致
type FlexString string

// UnmarshalJSON 接受 "12" 或 12 两种写法
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

// Int 解析为整数
func (f FlexString) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(string(f)))
}
