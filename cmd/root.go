package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"novelpack/internal/config"
	"novelpack/internal/pkg/logger"
	"novelpack/internal/pkg/noveltools"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "novelpack",
	Short: "novelpack - split scraped web novels into chunked text files",
	Long: `novelpack reads the JSON Lines chapter records produced by a web-novel scraper
and writes each novel as a series of plain-text files of N chapters each.
It can also list, rename and copy record files, and serve the same operations over HTTP.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace/debug/info/warn/error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (json/console)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.novelpack")
	}

	// 环境变量设置
	viper.SetEnvPrefix("NOVELPACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug().Str("config_file", used).Msg("configuration loaded")
	} else {
		log.Debug().Msg("no config file found, using defaults and environment variables")
	}
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 7080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "10m")

	// Chunk
	viper.SetDefault("chunk.size", 10)
	viper.SetDefault("chunk.start_chapter", 0)
	viper.SetDefault("chunk.skip_titles", noveltools.DefaultSkipTitles)

	// Translate
	viper.SetDefault("translate.provider", "none")
	viper.SetDefault("translate.source_lang", "ja")
	viper.SetDefault("translate.cache_ttl", "720h")
	viper.SetDefault("translate.timeout", "30s")
	viper.SetDefault("translate.ai.provider", "openai")
	viper.SetDefault("translate.ai.options.temperature", 0.2)
	viper.SetDefault("translate.ai.options.max_tokens", 256)

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stderr")
	viper.SetDefault("log.time_format", "RFC3339")

	// MongoDB（uri 为空时不记录处理历史）
	viper.SetDefault("mongo.database", "novelpack")
	viper.SetDefault("mongo.max_pool_size", 20)
	viper.SetDefault("mongo.min_pool_size", 0)

	// Redis（addr 为空时不缓存翻译结果）
	viper.SetDefault("redis.db", 0)

	// Storage
	viper.SetDefault("storage.type", "local")

	// Auth
	viper.SetDefault("auth.token_expiry", "720h")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
