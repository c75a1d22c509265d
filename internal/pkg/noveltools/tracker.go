package noveltools

import (
	"errors"
	"fmt"
)

// ErrInvalidChunkSize chunk size 不是正数
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// ChunkState 分块边界状态，一次处理只对应一部小说，不可共享
//
// 分块边界用取模表示：章节号 mod ChunkSize == StartModulo 时开启新分块，
// == EndModulo 时结束当前分块。两者始终相差 1（mod ChunkSize），
// 跳过的章节正好落在起始边界时两者一起后移，后续章节的分组不受影响。
type ChunkState struct {
	ChunkSize         int
	StartModulo       int
	EndModulo         int
	CurrentChunkStart int

	open          bool
	opened        int
	startOverride int
}

// Decision 处理单个章节时的边界判定结果
type Decision struct {
	FlushBefore bool // 追加本章前先输出尚未结束的分块（结束边界被跳过或缺失）
	Start       bool // 本章开启新分块，起始章节号见 CurrentChunkStart
	Flush       bool // 追加本章后输出当前分块
}

// NewChunkState 创建分块状态
func NewChunkState(chunkSize int) (*ChunkState, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, chunkSize)
	}
	return &ChunkState{
		ChunkSize:   chunkSize,
		StartModulo: 1 % chunkSize,
		EndModulo:   0,
	}, nil
}

// SetStartChapter 设置首个分块范围标签的起始章节号
// 仅在记录从小说中途开始、第一章不在起始边界上时生效，只改变标签，不改变章节分组
func (s *ChunkState) SetStartChapter(number int) {
	if number > 0 {
		s.startOverride = number
	}
}

// Skip 处理一个被跳过的章节
func (s *ChunkState) Skip(number int) {
	if s.mod(number) == s.StartModulo {
		s.StartModulo = (s.StartModulo + 1) % s.ChunkSize
		s.EndModulo = (s.EndModulo + 1) % s.ChunkSize
	}
}

// Next 处理一个正文章节，last 为小说最终章节号
func (s *ChunkState) Next(number, last int) Decision {
	var d Decision

	onStart := s.mod(number) == s.StartModulo
	if onStart && s.open {
		d.FlushBefore = true
	}
	if onStart || !s.open {
		d.Start = true
		start := number
		if !onStart && s.opened == 0 && s.startOverride > 0 && s.startOverride <= number {
			start = s.startOverride
		}
		s.CurrentChunkStart = start
		s.open = true
		s.opened++
	}

	if s.mod(number) == s.EndModulo || number == last {
		d.Flush = true
		s.open = false
	}

	return d
}

// Finish 流结束时调用，返回是否还有未输出的分块
func (s *ChunkState) Finish() bool {
	pending := s.open
	s.open = false
	return pending
}

func (s *ChunkState) mod(number int) int {
	m := number % s.ChunkSize
	if m < 0 {
		m += s.ChunkSize
	}
	return m
}
