package novel

import "strings"

// Metadata 小说元数据
// 标题和简介取第一条非空记录的值，最终章节号取最近一条记录的值
type Metadata struct {
	Title             string
	Description       string
	LastChapterNumber int
}

// Observe 用一条记录更新元数据
func (m *Metadata) Observe(rec *Record, ch *Chapter) {
	if rec != nil {
		if m.Title == "" && strings.TrimSpace(rec.NovelTitle) != "" {
			m.Title = rec.NovelTitle
		}
		if m.Description == "" && strings.TrimSpace(rec.NovelDescription) != "" {
			m.Description = rec.NovelDescription
		}
	}
	if ch != nil {
		m.LastChapterNumber = ch.Last
	}
}
