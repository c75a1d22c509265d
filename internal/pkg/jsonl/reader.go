// Package jsonl 逐行读取爬虫输出的 JSON Lines 记录文件
package jsonl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/goccy/go-json"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrInvalidRecord 行是合法的 JSON 对象，但字段类型与记录结构不符
var ErrInvalidRecord = errors.New("invalid record")

// Entry 一条成功解码的记录及其行号（从 1 开始）
type Entry[T any] struct {
	Line  int
	Value *T
}

// SkipFunc 遇到无法解码的行时回调
type SkipFunc func(line int, err error)

type options struct {
	onSkip SkipFunc
}

// Option 读取选项
type Option func(*options)

// WithSkipHandler 设置无法解码行的回调，常用于计数和调试日志
func WithSkipHandler(fn SkipFunc) Option {
	return func(o *options) {
		o.onSkip = fn
	}
}

// Records 返回记录文件的惰性序列
//
// 文件在开始迭代时打开，迭代结束或提前 break 时关闭；序列只能遍历一次。
// 不是合法 JSON 对象的行会被静默跳过（只触发 SkipFunc），空行忽略。
// 合法 JSON 但无法解码为 T 的行产出 ErrInvalidRecord 并结束，这类记录不能被丢弃。
// 打开或读取失败时产出一次 error 并结束。
func Records[T any](path string, opts ...Option) iter.Seq2[*Entry[T], error] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return func(yield func(*Entry[T], error) bool) {
		file, err := os.Open(path)
		if err != nil {
			yield(nil, fmt.Errorf("failed to open record file: %w", err))
			return
		}
		defer file.Close()

		reader := bufio.NewReader(file)
		lineNo := 0
		for {
			line, readErr := reader.ReadBytes('\n')
			if len(line) > 0 {
				lineNo++
				if lineNo == 1 {
					line = bytes.TrimPrefix(line, utf8BOM)
				}
				entry, err := decodeLine[T](line, lineNo, o)
				if err != nil {
					yield(nil, err)
					return
				}
				if entry != nil && !yield(entry, nil) {
					return
				}
			}
			if readErr != nil {
				if !errors.Is(readErr, io.EOF) {
					yield(nil, fmt.Errorf("failed to read record file at line %d: %w", lineNo+1, readErr))
				}
				return
			}
		}
	}
}

// decodeLine 返回 nil, nil 表示该行被跳过
func decodeLine[T any](line []byte, lineNo int, o *options) (*Entry[T], error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil, nil
	}
	// null 能被解码成零值，但它不是一条记录
	if trimmed[0] != '{' {
		o.skip(lineNo, fmt.Errorf("line is not a JSON object"))
		return nil, nil
	}
	if !json.Valid(trimmed) {
		o.skip(lineNo, fmt.Errorf("line is not valid JSON"))
		return nil, nil
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrInvalidRecord, err)
	}
	return &Entry[T]{Line: lineNo, Value: &v}, nil
}

func (o *options) skip(line int, err error) {
	if o.onSkip != nil {
		o.onSkip(line, err)
	}
}

// FirstRecord 返回文件中第一条可解码的记录
func FirstRecord[T any](path string) (*T, error) {
	for entry, err := range Records[T](path) {
		if err != nil {
			return nil, err
		}
		return entry.Value, nil
	}
	return nil, fmt.Errorf("no valid record in %s", path)
}
