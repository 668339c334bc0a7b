package domain

import (
	"image/color"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReferenceWidth は、フォントサイズの基準となる画像幅です
const ReferenceWidth = 512.0

// ShadowColor は、ドロップシャドウの色（黒、不透明度70%）です
var ShadowColor = color.NRGBA{R: 0, G: 0, B: 0, A: 179}

// OverlayShadow は、ドロップシャドウの描画パラメータです
type OverlayShadow struct {
	Blur    float64
	OffsetX float64
	OffsetY float64
	Color   color.NRGBA
}

// OverlayLayout は、画像に重ねるタイトルの配置を表します
// X, Y はテキストの中心座標です
type OverlayLayout struct {
	Text       string
	FontFamily string
	FontSize   float64
	Fill       color.NRGBA
	X          float64
	Y          float64
	Scale      float64
	Shadow     *OverlayShadow
}

// PlanOverlay は、画像サイズとテキスト設定からタイトルの配置を計算します
// タイトルが空の場合はfalseを返し、何も描画しません
func PlanOverlay(width, height int, title string, settings TextSettings) (OverlayLayout, bool) {
	if title == "" || width <= 0 || height <= 0 {
		return OverlayLayout{}, false
	}

	text := title
	if settings.Uppercase {
		text = cases.Upper(language.Und).String(text)
	}

	fill, err := ParseHexColor(settings.Color)
	if err != nil {
		fill = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}

	scale := float64(width) / ReferenceWidth
	layout := OverlayLayout{
		Text:       text,
		FontFamily: settings.FontFamily,
		FontSize:   float64(settings.FontSize) * scale,
		Fill:       fill,
		X:          float64(width) / 2,
		Y:          float64(settings.YPosition) / 100 * float64(height),
		Scale:      scale,
	}

	if settings.Shadow {
		layout.Shadow = &OverlayShadow{
			Blur:    10 * scale,
			OffsetX: 2 * scale,
			OffsetY: 2 * scale,
			Color:   ShadowColor,
		}
	}

	return layout, true
}
