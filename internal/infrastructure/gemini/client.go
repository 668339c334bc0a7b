package gemini

import (
	"context"
	"fmt"
	"time"

	"coverflow/internal/domain"
	"coverflow/internal/infrastructure/config"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// ImageClient は、Gemini APIでベース画像から派生画像を生成するクライアントです
type ImageClient struct {
	client *genai.Client
	config *config.GeminiConfig
	logger zerolog.Logger
}

// NewImageClient は新しいImageClientインスタンスを作成します
func NewImageClient(ctx context.Context, geminiConfig *config.GeminiConfig, logger zerolog.Logger) (*ImageClient, error) {
	if geminiConfig == nil {
		geminiConfig = config.DefaultGeminiConfig()
	}
	if geminiConfig.ImageModelName == "" {
		geminiConfig.ImageModelName = config.DefaultGeminiConfig().ImageModelName
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if geminiConfig.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: geminiConfig.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("Gemini APIクライアントの作成に失敗: %w", err)
	}

	return &ImageClient{
		client: client,
		config: geminiConfig,
		logger: logger.With().Str("component", "gemini").Str("model", geminiConfig.ImageModelName).Logger(),
	}, nil
}

// GenerateFromBase は、ベース画像と指示文を1回のリクエストで送り、最初の画像を返します
func (c *ImageClient) GenerateFromBase(ctx context.Context, base domain.BaseImage, prompt string) (*domain.GeneratedImage, error) {
	if len(base.Data) == 0 {
		return nil, domain.ErrBaseImageMissing
	}

	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	mimeType := base.MIMEType
	if mimeType == "" {
		mimeType = domain.DefaultImageMIMEType
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(base.Data, mimeType),
			genai.NewPartFromText(BuildInstruction(prompt)),
		}, genai.RoleUser),
	}

	start := time.Now()
	c.logger.Debug().Int("base_bytes", len(base.Data)).Str("prompt", prompt).Msg("Gemini APIに画像生成をリクエスト中")

	resp, err := c.client.Models.GenerateContent(ctx, c.config.ImageModelName, contents, c.createImageConfig())
	if err != nil {
		return nil, fmt.Errorf("Gemini APIでの画像生成に失敗: %w", err)
	}

	img, err := extractFirstImage(resp)
	if err != nil {
		c.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Gemini APIから画像を取得できませんでした")
		return nil, err
	}

	c.logger.Info().
		Int("bytes", len(img.Data)).
		Str("mime_type", img.MIMEType).
		Dur("elapsed", time.Since(start)).
		Msg("Gemini APIから画像を生成しました")
	return img, nil
}

// createImageConfig は、画像生成用の設定を作成します
func (c *ImageClient) createImageConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		// 安全フィルターの設定を調整（中程度の制限）
		SafetySettings: []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryHarassment,
				Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
			},
			{
				Category:  genai.HarmCategoryHateSpeech,
				Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
			},
			{
				Category:  genai.HarmCategorySexuallyExplicit,
				Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
			},
			{
				Category:  genai.HarmCategoryDangerousContent,
				Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
			},
		},
	}
}

// Close は、クライアントを閉じます
func (c *ImageClient) Close() error {
	// genai.ClientにはCloseメソッドがないため、何もしない
	return nil
}
