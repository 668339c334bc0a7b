package domain

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

const (
	MinFontSize  = 10
	MaxFontSize  = 200
	MinYPosition = 0
	MaxYPosition = 100
)

// FontFamilies は、選択可能なフォントファミリーです
var FontFamilies = []string{"Inter", "Georgia", "Impact", "Courier New"}

// IsSupportedFontFamily は、フォントファミリーが選択可能かを大文字小文字を区別せずに判定します
func IsSupportedFontFamily(family string) bool {
	family = strings.TrimSpace(family)
	for _, f := range FontFamilies {
		if strings.EqualFold(f, family) {
			return true
		}
	}
	return false
}

// TextSettings は、すべてのアイテムに共通で適用されるタイトルの描画設定です
type TextSettings struct {
	FontFamily string `json:"fontFamily"`
	FontSize   int    `json:"fontSize"`  // 幅512pxの画像を基準としたピクセル数
	Color      string `json:"color"`     // #rgb または #rrggbb
	YPosition  int    `json:"yPosition"` // 画像の高さに対する割合（%）
	Shadow     bool   `json:"shadow"`
	Uppercase  bool   `json:"uppercase"`
}

// DefaultTextSettings は、デフォルトのテキスト設定を返します
func DefaultTextSettings() TextSettings {
	return TextSettings{
		FontFamily: "Inter",
		FontSize:   48,
		Color:      "#ffffff",
		YPosition:  50,
		Shadow:     true,
		Uppercase:  true,
	}
}

// Validate は、テキスト設定の妥当性を検証します
func (s TextSettings) Validate() error {
	if strings.TrimSpace(s.FontFamily) == "" {
		return fmt.Errorf("%w: フォントファミリーが空です", ErrInvalidTextSettings)
	}
	if !IsSupportedFontFamily(s.FontFamily) {
		return fmt.Errorf("%w: 未対応のフォントファミリーです: %q", ErrInvalidTextSettings, s.FontFamily)
	}
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return fmt.Errorf("%w: フォントサイズは%dから%dの範囲である必要があります", ErrInvalidTextSettings, MinFontSize, MaxFontSize)
	}
	if s.YPosition < MinYPosition || s.YPosition > MaxYPosition {
		return fmt.Errorf("%w: 縦位置は%dから%dの範囲である必要があります", ErrInvalidTextSettings, MinYPosition, MaxYPosition)
	}
	if _, err := ParseHexColor(s.Color); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTextSettings, err)
	}
	return nil
}

// ParseHexColor は、#rgb または #rrggbb 形式の色を解析します
func ParseHexColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("色は#で始まる必要があります: %q", s)
	}

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("色の形式が不正です: %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("色の形式が不正です: %q", s)
	}

	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
