package translate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"novelpack/internal/ai/component"
	"novelpack/internal/config"
	"novelpack/internal/pkg/ark"
	"novelpack/internal/pkg/noveltools"
	"novelpack/internal/pkg/noveltools/providers"
)

// New 根据配置创建翻译器
// provider 为空或 none 时返回 Noop；c 不为 nil 且 CacheTTL > 0 时加上缓存
func New(ctx context.Context, cfg *config.TranslateConfig, c Cache) (Translator, error) {
	var provider noveltools.LLMProvider

	switch cfg.Provider {
	case "", "none":
		return Noop{}, nil
	case "eino":
		chatModel, err := component.NewChatModel(ctx, &cfg.AI)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		provider = providers.NewEinoProvider(chatModel, SystemPrompt)
	case "ark":
		client, err := ark.NewClient(&cfg.AI)
		if err != nil {
			return nil, fmt.Errorf("failed to create ark client: %w", err)
		}
		provider = providers.NewArkProvider(client)
	default:
		return nil, fmt.Errorf("unsupported translate provider: %s", cfg.Provider)
	}

	var tr Translator = NewLLMTranslator(provider, cfg.Timeout)
	if c != nil && cfg.CacheTTL > 0 {
		tr = NewCachedTranslator(tr, c, cfg.CacheTTL)
	}

	log.Info().
		Str("provider", cfg.Provider).
		Str("ai_provider", cfg.AI.Provider).
		Bool("cached", c != nil && cfg.CacheTTL > 0).
		Msg("title translator ready")
	return tr, nil
}
