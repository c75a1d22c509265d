package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"novelpack/internal/pkg/noveltools"
)

// SystemPrompt 标题翻译的系统提示词
const SystemPrompt = "You translate web novel titles into English. Reply with the translated title only."

var languageNames = map[string]string{
	"ja": "Japanese",
	"zh": "Chinese",
	"ko": "Korean",
}

// LLMTranslator 使用大模型翻译标题
type LLMTranslator struct {
	provider noveltools.LLMProvider
	timeout  time.Duration
}

// NewLLMTranslator 创建大模型翻译器，timeout <= 0 时不设置单次超时
func NewLLMTranslator(provider noveltools.LLMProvider, timeout time.Duration) *LLMTranslator {
	return &LLMTranslator{provider: provider, timeout: timeout}
}

// Translate 实现 Translator
func (t *LLMTranslator) Translate(ctx context.Context, text, sourceLang string) (string, error) {
	if t.provider == nil {
		return "", &Error{Text: text, Err: fmt.Errorf("llm provider is required")}
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	out, err := t.provider.Generate(ctx, BuildPrompt(text, sourceLang))
	if err != nil {
		return "", &Error{Text: text, Err: err}
	}
	out = CleanOutput(out)
	if out == "" {
		return "", &Error{Text: text, Err: fmt.Errorf("empty translation")}
	}
	return out, nil
}

// BuildPrompt 生成翻译提示词
func BuildPrompt(text, sourceLang string) string {
	lang, ok := languageNames[sourceLang]
	if !ok {
		lang = "the source language"
		if sourceLang != "" {
			lang = sourceLang
		}
	}
	return fmt.Sprintf("Translate this %s web novel title into English. Reply with the title only, no quotes or notes.\n\n%s", lang, text)
}

// CleanOutput 取第一行非空文本，去掉首尾引号
func CleanOutput(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "Title:")
		return strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "\"'“”「」『』`"))
	}
	return ""
}
