package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"coverflow/internal/infrastructure/config"

	"github.com/joho/godotenv"
)

// Config は、アプリケーション全体の設定を定義します
type Config struct {
	Server  config.ServerConfig
	Gemini  config.GeminiConfig
	Batch   config.BatchConfig
	Discord config.DiscordConfig
}

// LoadConfig は、環境変数から設定を読み込みます
func LoadConfig() (*Config, error) {
	// .envファイルを読み込み（ファイルが存在しない場合は無視）
	if err := godotenv.Load(); err != nil {
		fmt.Printf("警告: .envファイルの読み込みに失敗しました: %v\n", err)
	}

	geminiDefaults := config.DefaultGeminiConfig()
	batchDefaults := config.DefaultBatchConfig()

	cfg := &Config{
		Server: config.ServerConfig{
			AppEnv:         getEnvOrDefault("APP_ENV", "production"),
			Port:           getEnvOrDefault("PORT", "8080"),
			ReadTimeout:    getEnvAsDurationOrDefault("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDurationOrDefault("HTTP_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:    getEnvAsDurationOrDefault("HTTP_IDLE_TIMEOUT", 120*time.Second),
			MaxUploadBytes: int64(getEnvAsIntOrDefault("MAX_UPLOAD_BYTES", 20<<20)),
		},
		Gemini: config.GeminiConfig{
			APIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
			ImageModelName: getEnvOrDefault("GEMINI_IMAGE_MODEL", geminiDefaults.ImageModelName),
			BaseURL:        getEnvOrDefault("GEMINI_BASE_URL", ""),
			RequestTimeout: getEnvAsDurationOrDefault("GEMINI_REQUEST_TIMEOUT", geminiDefaults.RequestTimeout),
		},
		Batch: config.BatchConfig{
			DefaultPrompt:  getEnvOrDefault("BATCH_DEFAULT_PROMPT", batchDefaults.DefaultPrompt),
			RateInterval:   getEnvAsDurationOrDefault("BATCH_RATE_INTERVAL", 0),
			AutoPublish:    getEnvAsBoolOrDefault("BATCH_AUTO_PUBLISH", false),
			RenderCacheTTL: getEnvAsDurationOrDefault("RENDER_CACHE_TTL", batchDefaults.RenderCacheTTL),
		},
		Discord: config.DiscordConfig{
			BotToken:  getEnvOrDefault("DISCORD_BOT_TOKEN", ""),
			ChannelID: getEnvOrDefault("DISCORD_CHANNEL_ID", ""),
		},
	}

	// 必須設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate は、設定の妥当性を検証します
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY が設定されていません")
	}

	if c.Gemini.ImageModelName == "" {
		return fmt.Errorf("GEMINI_IMAGE_MODEL が設定されていません")
	}

	if c.Gemini.RequestTimeout < 0 {
		return fmt.Errorf("GEMINI_REQUEST_TIMEOUT は0以上である必要があります")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT が設定されていません")
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES は正の整数である必要があります")
	}

	if c.Batch.RateInterval < 0 {
		return fmt.Errorf("BATCH_RATE_INTERVAL は0以上である必要があります")
	}

	if c.Batch.RenderCacheTTL <= 0 {
		return fmt.Errorf("RENDER_CACHE_TTL は正の値である必要があります")
	}

	if c.Batch.AutoPublish && !c.Discord.Enabled() {
		return fmt.Errorf("BATCH_AUTO_PUBLISH には DISCORD_BOT_TOKEN と DISCORD_CHANNEL_ID が必要です")
	}

	return nil
}

// getEnvOrDefault は、環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は、環境変数を整数として取得し、存在しない場合はデフォルト値を返します
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault は、環境変数を時間として取得し、存在しない場合はデフォルト値を返します
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault は、環境変数を真偽値として取得し、存在しない場合はデフォルト値を返します
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
