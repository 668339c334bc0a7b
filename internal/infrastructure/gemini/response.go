package gemini

import (
	"errors"
	"fmt"
	"strings"

	"coverflow/internal/domain"

	"google.golang.org/genai"
)

// ErrBlocked は、安全フィルターや著作権チェックにより生成が拒否された場合のエラーです
var ErrBlocked = errors.New("Gemini APIにより生成がブロックされました")

// extractFirstImage は、最初の候補に含まれる最初のインライン画像を取り出します
func extractFirstImage(resp *genai.GenerateContentResponse) (*domain.GeneratedImage, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: レスポンスが空です", domain.ErrNoImageInResponse)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: プロンプトが拒否されました (%s)", ErrBlocked, resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("%w: 候補が含まれていません", domain.ErrNoImageInResponse)
	}

	candidate := resp.Candidates[0]

	// FinishReasonをチェックして安全フィルターによるブロックを検出
	switch candidate.FinishReason {
	case genai.FinishReasonSafety, "IMAGE_SAFETY", "PROHIBITED_CONTENT":
		return nil, fmt.Errorf("%w: 安全フィルターによるブロック。詳細: %s", ErrBlocked, formatSafetyRatings(candidate.SafetyRatings))
	case genai.FinishReasonRecitation:
		return nil, fmt.Errorf("%w: 著作権で保護されたコンテンツが含まれている可能性があります", ErrBlocked)
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: コンテンツが含まれていません。FinishReason: %s", domain.ErrNoImageInResponse, candidate.FinishReason)
	}

	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return domain.NewGeneratedImage(part.InlineData.Data, part.InlineData.MIMEType), nil
		}
	}

	if text := collectText(candidate.Content.Parts); text != "" {
		return nil, fmt.Errorf("%w: テキストのみが返されました: %s", domain.ErrNoImageInResponse, truncate(text, 200))
	}
	return nil, fmt.Errorf("%w: FinishReason: %s", domain.ErrNoImageInResponse, candidate.FinishReason)
}

// formatSafetyRatings は、安全性評価をログ向けの文字列に整形します
func formatSafetyRatings(ratings []*genai.SafetyRating) string {
	if len(ratings) == 0 {
		return "なし"
	}

	var parts []string
	for _, r := range ratings {
		if r == nil {
			continue
		}
		entry := fmt.Sprintf("%s=%s", r.Category, r.Probability)
		if r.Blocked {
			entry += "(ブロック)"
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, ", ")
}

func collectText(parts []*genai.Part) string {
	var b strings.Builder
	for _, part := range parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
