// Package translate 小说标题翻译
//
// 翻译结果只用于输出目录名和文件名。任何失败都返回 ErrTranslation，
// 由调用方回退到原始标题，翻译失败不会中止分块处理。
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"novelpack/internal/pkg/noveltools"
)

// UntitledNovel 原始标题为空时使用的目录名
const UntitledNovel = "untitled_novel"

// ErrTranslation 翻译失败
var ErrTranslation = errors.New("translation failed")

// Error 翻译失败的详细信息，errors.Is(err, ErrTranslation) 为 true
type Error struct {
	Text string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("translation of %q failed", e.Text)
	}
	return fmt.Sprintf("translation of %q failed: %v", e.Text, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrTranslation
}

// Translator 标题翻译器
type Translator interface {
	Translate(ctx context.Context, text, sourceLang string) (string, error)
}

// Noop 不翻译，总是失败，调用方使用原始标题
type Noop struct{}

// Translate 实现 Translator
func (Noop) Translate(_ context.Context, text, _ string) (string, error) {
	return "", &Error{Text: text}
}

// ResolveTitle 计算用于路径的显示标题
//
// 翻译出错、结果为空或结果中含有 "error"（旧翻译器的错误输出）时回退到原始标题，
// 原始标题为空时使用 UntitledNovel。返回值未经清理，第二个返回值表示是否使用了翻译结果。
func ResolveTitle(ctx context.Context, tr Translator, title, sourceLang string) (string, bool) {
	raw := strings.TrimSpace(title)
	if raw == "" {
		return UntitledNovel, false
	}
	if tr == nil {
		return raw, false
	}

	translated, err := tr.Translate(ctx, raw, sourceLang)
	translated = strings.TrimSpace(translated)
	switch {
	case err != nil:
		if !isNoop(tr) {
			log.Warn().Err(err).Str("title", raw).Msg("title translation failed, using raw title")
		}
		return raw, false
	case translated == "":
		log.Warn().Str("title", raw).Msg("title translation returned empty result, using raw title")
		return raw, false
	case strings.Contains(strings.ToLower(translated), "error"):
		log.Warn().Str("title", raw).Str("translated", translated).Msg("title translation looks like an error, using raw title")
		return raw, false
	}
	return translated, true
}

// SafeDisplayTitle ResolveTitle 的结果经过 noveltools.SafeTitle 清理，清理后为空时回退
func SafeDisplayTitle(ctx context.Context, tr Translator, title, sourceLang string) string {
	display, translated := ResolveTitle(ctx, tr, title, sourceLang)
	safe := noveltools.SafeTitle(display)
	if safe == "" && translated {
		safe = noveltools.SafeTitle(strings.TrimSpace(title))
	}
	if safe == "" {
		safe = UntitledNovel
	}
	return safe
}

func isNoop(tr Translator) bool {
	_, ok := tr.(Noop)
	return ok
}
