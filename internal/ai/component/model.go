package component

import (
	"context"
	"fmt"

	arkext "github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"novelpack/internal/config"
)

const (
	// DefaultArkBaseURL 火山引擎 Ark 默认地址
	DefaultArkBaseURL = "https://ark.cn-beijing.volces.com/api/v3"
	// DefaultArkModel 标题翻译默认模型
	DefaultArkModel = "doubao-seed-1-6-flash-250615"
)

// NewChatModel 创建 ChatModel
// 支持多种 Provider: openai, azure, ark
func NewChatModel(ctx context.Context, cfg *config.AIConfig) (model.BaseChatModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ai config is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai api key is required for provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case "openai", "":
		return newOpenAIChatModel(ctx, cfg, false)
	case "azure":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("base_url is required for azure provider")
		}
		return newOpenAIChatModel(ctx, cfg, true)
	case "ark":
		return newArkChatModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// newOpenAIChatModel 创建 OpenAI / Azure OpenAI ChatModel
func newOpenAIChatModel(ctx context.Context, cfg *config.AIConfig, byAzure bool) (model.BaseChatModel, error) {
	modelCfg := &openai.ChatModelConfig{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		ByAzure: byAzure,
	}
	modelCfg.Temperature, modelCfg.MaxTokens, modelCfg.TopP = sampling(cfg.Options)

	return openai.NewChatModel(ctx, modelCfg)
}

// newArkChatModel 创建 Ark ChatModel（使用 eino-ext 模块）
func newArkChatModel(ctx context.Context, cfg *config.AIConfig) (model.BaseChatModel, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultArkBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultArkModel
	}

	modelCfg := &arkext.ChatModelConfig{
		Model:   modelName,
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
	}
	modelCfg.Temperature, modelCfg.MaxTokens, modelCfg.TopP = sampling(cfg.Options)

	return arkext.NewChatModel(ctx, modelCfg)
}

// sampling 未配置（零值）的参数保持为 nil，使用模型默认值
func sampling(opts config.AIOptionsConfig) (temperature *float32, maxTokens *int, topP *float32) {
	if opts.Temperature > 0 {
		t := float32(opts.Temperature)
		temperature = &t
	}
	if opts.MaxTokens > 0 {
		n := opts.MaxTokens
		maxTokens = &n
	}
	if opts.TopP > 0 {
		p := float32(opts.TopP)
		topP = &p
	}
	return temperature, maxTokens, topP
}
