package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoProvider Eino 封装的 LLM 提供者（默认使用）
// 使用 ai/component 封装的 ChatModel，实现了 noveltools.LLMProvider 接口
type EinoProvider struct {
	chatModel model.BaseChatModel
	system    string
}

// NewEinoProvider 创建基于 Eino 的 LLM 提供者
//
// Args:
//   - chatModel: 通过 ai/component.NewChatModel 创建的 ChatModel 实例
//   - system: 系统提示词，可为空
func NewEinoProvider(chatModel model.BaseChatModel, system string) *EinoProvider {
	return &EinoProvider{
		chatModel: chatModel,
		system:    system,
	}
}

// Generate 根据提示词生成文本
func (p *EinoProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.chatModel == nil {
		return "", fmt.Errorf("chatModel is required")
	}

	messages := make([]*schema.Message, 0, 2)
	if p.system != "" {
		messages = append(messages, schema.SystemMessage(p.system))
	}
	messages = append(messages, schema.UserMessage(prompt))

	response, err := p.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	content := strings.TrimSpace(response.Content)
	if content == "" {
		return "", fmt.Errorf("empty response from chat model")
	}
	return content, nil
}
