package config

import (
	"errors"
	"fmt"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Chunk     ChunkConfig     `mapstructure:"chunk"`
	Translate TranslateConfig `mapstructure:"translate"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DataRoot     string        `mapstructure:"data_root"` // 非空时 API 只能访问该目录下的文件
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// ChunkConfig 章节分块配置
type ChunkConfig struct {
	Size         int      `mapstructure:"size"`          // 每个输出文件包含的章节数
	StartChapter int      `mapstructure:"start_chapter"` // 首个分块范围标签的起点，只影响标签（0 表示取第一条记录）
	SkipTitles   []string `mapstructure:"skip_titles"`   // 需要跳过的章节标题
}

// Validate 校验分块配置，chunk size 必须为正数
func (c *ChunkConfig) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("invalid chunk size %d, must be positive", c.Size)
	}
	if c.StartChapter < 0 {
		return fmt.Errorf("invalid start chapter %d", c.StartChapter)
	}
	return nil
}

// TranslateConfig 标题翻译配置
type TranslateConfig struct {
	Provider   string        `mapstructure:"provider"`    // none, eino, ark
	SourceLang string        `mapstructure:"source_lang"` // 源语言，默认 ja
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`   // Redis 缓存时间，0 表示不缓存
	Timeout    time.Duration `mapstructure:"timeout"`     // 单次翻译超时
	AI         AIConfig      `mapstructure:"ai"`
}

// AIConfig AI 服务配置
type AIConfig struct {
	Provider string          `mapstructure:"provider"` // openai, azure, ark
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`   // 为空时 API 不启用认证
	TokenExpiry time.Duration `mapstructure:"token_expiry"` // Token 过期时间
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"` // 为空时以记录文件所在目录的上级目录为根
	BaseURL  string `mapstructure:"base_url"`
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	Prefix          string `mapstructure:"prefix"`         // 对象 key 前缀
	PresignExpiry   int    `mapstructure:"presign_expiry"` // 预签名URL过期时间（秒）
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	return c.ValidateProcessing()
}

// ValidateProcessing 只校验离线处理（unpack 等命令）需要的配置
func (c *Config) ValidateProcessing() error {
	if err := c.Chunk.Validate(); err != nil {
		return err
	}

	switch c.Translate.Provider {
	case "", "none", "eino", "ark":
	default:
		return fmt.Errorf("unsupported translate provider: %s", c.Translate.Provider)
	}

	switch c.Storage.Type {
	case "", "local", "oss":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	return nil
}
