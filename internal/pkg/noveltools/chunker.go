package noveltools

import (
	"novelpack/internal/model/novel"
)

// EmitFunc 分块输出回调，返回错误时整个处理过程中止
type EmitFunc func(chunk *Chunk) error

// Chunker 按章节号把章节流分组为分块
//
// 章节必须按记录顺序逐个调用 Add，流结束后调用 Close 输出剩余分块。
// meta 由调用方在每条记录到达时更新，分块输出时读取其当前值。
type Chunker struct {
	policy *SkipPolicy
	state  *ChunkState
	asm    *Assembler
	meta   *novel.Metadata
	emit   EmitFunc

	skipped int
	emitted int
}

// NewChunker 创建分块器，chunkSize <= 0 时返回 ErrInvalidChunkSize
func NewChunker(chunkSize int, policy *SkipPolicy, meta *novel.Metadata, emit EmitFunc) (*Chunker, error) {
	state, err := NewChunkState(chunkSize)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		policy = NewSkipPolicy()
	}
	if meta == nil {
		meta = &novel.Metadata{}
	}
	return &Chunker{
		policy: policy,
		state:  state,
		asm:    NewAssembler(chunkSize),
		meta:   meta,
		emit:   emit,
	}, nil
}

// SetStartChapter 见 ChunkState.SetStartChapter
func (c *Chunker) SetStartChapter(number int) {
	c.state.SetStartChapter(number)
}

// Add 处理一个章节
func (c *Chunker) Add(ch *novel.Chapter) error {
	if c.policy.ShouldSkip(ch) {
		c.state.Skip(ch.Number)
		c.skipped++
		return nil
	}

	d := c.state.Next(ch.Number, c.meta.LastChapterNumber)
	if d.FlushBefore {
		if err := c.flush(); err != nil {
			return err
		}
	}
	if d.Start {
		c.asm.Begin(c.state.CurrentChunkStart)
	}
	c.asm.Append(ch)
	if d.Flush {
		return c.flush()
	}
	return nil
}

// Close 输出尚未结束的分块（最终章被跳过或记录不完整时）
func (c *Chunker) Close() error {
	c.state.Finish()
	return c.flush()
}

// Skipped 被跳过的章节数
func (c *Chunker) Skipped() int {
	return c.skipped
}

// Emitted 已输出的分块数
func (c *Chunker) Emitted() int {
	return c.emitted
}

func (c *Chunker) flush() error {
	chunk := c.asm.Build(c.meta)
	if chunk == nil {
		return nil
	}
	if err := c.emit(chunk); err != nil {
		return err
	}
	c.asm.Reset()
	c.emitted++
	return nil
}
