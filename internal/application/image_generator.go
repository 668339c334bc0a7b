package application

import (
	"context"

	"coverflow/internal/domain"
)

// ImageGenerator は、ベース画像とプロンプトから派生画像を生成するクライアントのインターフェースです
type ImageGenerator interface {
	// GenerateFromBase は、ベース画像を参照してプロンプトに沿った画像を1枚生成します
	GenerateFromBase(ctx context.Context, base domain.BaseImage, prompt string) (*domain.GeneratedImage, error)
}
