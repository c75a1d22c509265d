package noveltools

import (
	"fmt"
	"strings"

	"novelpack/internal/model/novel"
)

// ChunkHeader 分块头部
type ChunkHeader struct {
	RangeLabel   string // "{start}-{end}"
	HeaderPrefix string // 首个分块带标题和简介，其余只有范围标签
}

// Chunk 一个待写出的分块
type Chunk struct {
	Start      int
	End        int
	RangeLabel string
	Text       string
	Chapters   int
}

// Assembler 分块文本缓冲
// 缓冲只在每次输出后清空，chunk size 越大内存占用越高
type Assembler struct {
	chunkSize int
	buf       strings.Builder
	start     int
	end       int
	chapters  int
}

// NewAssembler 创建分块缓冲
func NewAssembler(chunkSize int) *Assembler {
	return &Assembler{chunkSize: chunkSize}
}

// Begin 标记新分块的起始章节号，每个分块的第一次 Append 之前必须调用
func (a *Assembler) Begin(start int) {
	a.start = start
}

// Append 按到达顺序追加章节
func (a *Assembler) Append(ch *novel.Chapter) {
	a.buf.WriteString(RenderChapter(ch))
	a.end = ch.Number
	a.chapters++
}

// Len 已缓冲的章节数
func (a *Assembler) Len() int {
	return a.chapters
}

// BuildChunkHeader 生成分块头部，只有小说的第一个分块带标题和简介
func (a *Assembler) BuildChunkHeader(start, end int, meta *novel.Metadata) ChunkHeader {
	label := fmt.Sprintf("%d-%d", start, end)
	if start <= a.chunkSize {
		return ChunkHeader{
			RangeLabel:   label,
			HeaderPrefix: fmt.Sprintf("%s %s\n%s\n", label, meta.Title, meta.Description),
		}
	}
	return ChunkHeader{
		RangeLabel:   label,
		HeaderPrefix: label + " ",
	}
}

// BuildChunkText 头部加上全部缓冲章节
func (a *Assembler) BuildChunkText(header ChunkHeader) string {
	return header.HeaderPrefix + a.buf.String()
}

// Build 生成当前分块，缓冲为空时返回 nil
func (a *Assembler) Build(meta *novel.Metadata) *Chunk {
	if a.chapters == 0 {
		return nil
	}
	header := a.BuildChunkHeader(a.start, a.end, meta)
	return &Chunk{
		Start:      a.start,
		End:        a.end,
		RangeLabel: header.RangeLabel,
		Text:       a.BuildChunkText(header),
		Chapters:   a.chapters,
	}
}

// Reset 清空缓冲
func (a *Assembler) Reset() {
	a.buf.Reset()
	a.start = 0
	a.end = 0
	a.chapters = 0
}

// RenderChapter 渲染单个章节：卷标题、章节标题、前言、正文、后记，各占一段，空段落省略
func RenderChapter(ch *novel.Chapter) string {
	var b strings.Builder
	for _, section := range []string{ch.VolumeTitle, ch.Title, ch.Foreword, ch.Text, ch.Afterword} {
		if strings.TrimSpace(section) == "" {
			continue
		}
		b.WriteString(section)
		b.WriteString("\n")
	}
	return b.String()
}
