package providers

import (
	"context"
	"fmt"
	"strings"
)

// ArkCompleter pkg/ark.Client 的最小接口
type ArkCompleter interface {
	CreateChatCompletionSimple(ctx context.Context, prompt string) (string, error)
}

// ArkProvider 直接使用 volcengine arkruntime 的 LLM 提供者
// 实现了 noveltools.LLMProvider 接口
type ArkProvider struct {
	client ArkCompleter
}

// NewArkProvider 创建基于 Ark 的 LLM 提供者
//
// Args:
//   - client: Ark 客户端实例（通过 ark.NewClient 创建）
func NewArkProvider(client ArkCompleter) *ArkProvider {
	return &ArkProvider{
		client: client,
	}
}

// Generate 根据提示词生成文本
func (p *ArkProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("ark client is required")
	}
	text, err := p.client.CreateChatCompletionSimple(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty response from ark")
	}
	return text, nil
}
