package ark

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"

	"novelpack/internal/config"
)

const (
	defaultBaseURL = "https://ark.cn-beijing.volces.com/api/v3"
	defaultModel   = "doubao-seed-1-6-flash-250615"

	// 标题翻译只需要很短的输出
	defaultMaxTokens   = 256
	defaultTemperature = 0.2
)

// Client Ark 客户端封装
// 用于调用火山引擎的 Ark API（豆包大模型），使用官方 volcengine-go-sdk
type Client struct {
	client      *arkruntime.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewClient 创建 Ark 客户端
func NewClient(cfg *config.AIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("Ark API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}

	c := &Client{
		client:      arkruntime.NewClientWithApiKey(cfg.APIKey, arkruntime.WithBaseUrl(baseURL)),
		model:       modelName,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
	if cfg.Options.MaxTokens > 0 {
		c.maxTokens = cfg.Options.MaxTokens
	}
	if cfg.Options.Temperature > 0 {
		c.temperature = float32(cfg.Options.Temperature)
	}
	return c, nil
}

// Model 使用的模型名称
func (c *Client) Model() string {
	return c.model
}

// CreateChatCompletionSimple 单轮对话，返回第一个候选的文本
func (c *Client) CreateChatCompletionSimple(ctx context.Context, prompt string) (string, error) {
	req := &model.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []*model.ChatCompletionMessage{userMessage(prompt)},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("failed to call Ark ChatCompletion API")
		return "", fmt.Errorf("Ark API call failed: %w", err)
	}
	return firstContent(&resp)
}

func userMessage(content string) *model.ChatCompletionMessage {
	return &model.ChatCompletionMessage{
		Role:    "user",
		Content: &model.ChatCompletionMessageContent{StringValue: &content},
	}
}

// firstContent 提取第一个候选的文本内容
func firstContent(resp *model.ChatCompletionResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	msg := resp.Choices[0].Message
	if msg.Content == nil || msg.Content.StringValue == nil {
		return "", fmt.Errorf("empty content in response")
	}
	return *msg.Content.StringValue, nil
}
