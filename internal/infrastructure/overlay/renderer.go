package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"coverflow/internal/domain"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Renderer は、生成画像の上にタイトルを描画してPNGとして出力します
type Renderer struct {
	fonts *FontRegistry
}

// NewRenderer は新しいRendererを作成します
func NewRenderer(fonts *FontRegistry) *Renderer {
	if fonts == nil {
		fonts = NewFontRegistry()
	}
	return &Renderer{fonts: fonts}
}

// Render は、画像データを元の解像度のまま読み込み、タイトルを重ねたPNGを返します
// タイトルが空の場合は元の画像をそのままPNGとして返します
func (r *Renderer) Render(src []byte, title string, settings domain.TextSettings) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗: %w", err)
	}

	bounds := img.Bounds()
	layout, ok := domain.PlanOverlay(bounds.Dx(), bounds.Dy(), title, settings)
	if !ok {
		return encodePNG(img)
	}

	face, err := r.fonts.NewFace(layout.FontFamily, layout.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	canvas := imaging.Clone(img)

	if layout.Shadow != nil {
		shadow := image.NewNRGBA(canvas.Bounds())
		drawCentered(shadow, face, layout.Text, layout.X+layout.Shadow.OffsetX, layout.Y+layout.Shadow.OffsetY, layout.Shadow.Color)

		blurred := shadow
		// キャンバスのshadowBlurは標準偏差のおよそ2倍に相当する
		if sigma := layout.Shadow.Blur / 2; sigma > 0 {
			blurred = imaging.Blur(shadow, sigma)
		}
		canvas = imaging.Overlay(canvas, blurred, image.Pt(0, 0), 1.0)
	}

	drawCentered(canvas, face, layout.Text, layout.X, layout.Y, layout.Fill)

	return encodePNG(canvas)
}

// drawCentered は、(cx, cy) を中心としてテキストを1行描画します
func drawCentered(dst *image.NRGBA, face font.Face, text string, cx, cy float64, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}

	width := d.MeasureString(text)
	metrics := face.Metrics()

	x := toFixed(cx) - width/2
	// ベースラインをアセントとディセントの中央に合わせる
	y := toFixed(cy) + (metrics.Ascent-metrics.Descent)/2

	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("PNGのエンコードに失敗: %w", err)
	}
	return buf.Bytes(), nil
}
