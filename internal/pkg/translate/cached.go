package translate

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"novelpack/internal/pkg/cache"
)

// Cache 翻译缓存，*cache.RedisCache 实现了该接口
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// CachedTranslator 为任意翻译器加一层缓存
// 缓存读写失败只记录日志，不影响翻译；失败的翻译不缓存
type CachedTranslator struct {
	next  Translator
	cache Cache
	ttl   time.Duration
}

// NewCachedTranslator 创建带缓存的翻译器，ttl <= 0 时使用 cache.TranslationCacheTTL
func NewCachedTranslator(next Translator, c Cache, ttl time.Duration) *CachedTranslator {
	if ttl <= 0 {
		ttl = cache.TranslationCacheTTL
	}
	return &CachedTranslator{next: next, cache: c, ttl: ttl}
}

// Translate 实现 Translator
func (t *CachedTranslator) Translate(ctx context.Context, text, sourceLang string) (string, error) {
	key := cache.TranslationCacheKey(sourceLang, text)

	var cached string
	err := t.cache.Get(ctx, key, &cached)
	switch {
	case err == nil && cached != "":
		log.Debug().Str("key", key).Msg("translation cache hit")
		return cached, nil
	case err != nil && !cache.IsMiss(err):
		log.Warn().Err(err).Str("key", key).Msg("failed to read translation cache")
	}

	out, err := t.next.Translate(ctx, text, sourceLang)
	if err != nil {
		return "", err
	}

	if err := t.cache.Set(ctx, key, out, t.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to write translation cache")
	}
	return out, nil
}
