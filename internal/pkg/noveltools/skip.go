package noveltools

import (
	"strings"

	"novelpack/internal/model/novel"
)

// DefaultSkipTitles 默认跳过的非正文章节标题（人物介绍类）
var DefaultSkipTitles = []string{"人物紹介", "登場人物"}

// SkipPolicy 判断章节是否为非正文内容
//
// 匹配规则：章节标题去掉首尾空白后与跳过列表中的某一项完全相同。
// 不做子串匹配，避免「登場人物たちの休日」这类正文章节被误跳过。
type SkipPolicy struct {
	titles map[string]struct{}
}

// NewSkipPolicy 创建跳过策略，titles 为空时使用 DefaultSkipTitles
func NewSkipPolicy(titles ...string) *SkipPolicy {
	if len(titles) == 0 {
		titles = DefaultSkipTitles
	}
	p := &SkipPolicy{titles: make(map[string]struct{}, len(titles))}
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t != "" {
			p.titles[t] = struct{}{}
		}
	}
	return p
}

// ShouldSkip 章节是否应从输出中排除
func (p *SkipPolicy) ShouldSkip(ch *novel.Chapter) bool {
	if ch == nil {
		return false
	}
	_, ok := p.titles[strings.TrimSpace(ch.Title)]
	return ok
}
