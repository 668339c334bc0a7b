package config

import "time"

// GeminiConfig は、Gemini API関連の設定を定義します
type GeminiConfig struct {
	APIKey         string
	ImageModelName string        // 画像生成用モデル名
	BaseURL        string        // 空の場合はSDKのデフォルトを使用
	RequestTimeout time.Duration // 0の場合はタイムアウトなし
}

// ServerConfig は、HTTPサーバー関連の設定を定義します
type ServerConfig struct {
	AppEnv         string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxUploadBytes int64
}

// BatchConfig は、バッチ生成関連の設定を定義します
type BatchConfig struct {
	DefaultPrompt  string        // プロンプトが空のアイテムに使用するテーマ
	RateInterval   time.Duration // 一括生成時のリクエスト間隔（0で無制限）
	AutoPublish    bool          // 一括生成の完了後にDiscordへ投稿するか
	RenderCacheTTL time.Duration
}

// DiscordConfig は、Discord関連の設定を定義します
type DiscordConfig struct {
	BotToken  string
	ChannelID string
}

// Enabled は、Discordへの投稿に必要な設定が揃っているかを返します
func (c DiscordConfig) Enabled() bool {
	return c.BotToken != "" && c.ChannelID != ""
}

// DefaultGeminiConfig は、デフォルトのGemini設定を返します
func DefaultGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		ImageModelName: "gemini-2.5-flash-image",
		RequestTimeout: 120 * time.Second,
	}
}

// DefaultBatchConfig は、デフォルトのバッチ設定を返します
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		DefaultPrompt:  "Professional design variant",
		RenderCacheTTL: 10 * time.Minute,
	}
}
