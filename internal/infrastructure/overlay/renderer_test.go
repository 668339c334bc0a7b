package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"coverflow/internal/domain"

	"github.com/disintegration/imaging"
)

// solidPNG は、単色のPNG画像を作成します
func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := imaging.New(w, h, c)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("PNGのエンコードに失敗: %v", err)
	}
	return buf.Bytes()
}

// gradientPNG は、画素ごとに色が異なるPNG画像を作成します
func gradientPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("PNGのエンコードに失敗: %v", err)
	}
	return buf.Bytes()
}

func decodeNRGBA(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("画像のデコードに失敗: %v", err)
	}
	return imaging.Clone(img)
}

func noShadow() domain.TextSettings {
	s := domain.DefaultTextSettings()
	s.Shadow = false
	return s
}

func TestRenderer_EmptyTitleIsPixelIdentical(t *testing.T) {
	src := gradientPNG(t, 120, 80)
	r := NewRenderer(nil)

	out, err := r.Render(src, "", domain.DefaultTextSettings())
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	want := decodeNRGBA(t, src)
	got := decodeNRGBA(t, out)
	if got.Bounds() != want.Bounds() {
		t.Fatalf("サイズが変わっています: %v → %v", want.Bounds(), got.Bounds())
	}
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("タイトルが空の場合は画素が一致するべきです")
	}
}

func TestRenderer_DrawsTitleAtNativeSize(t *testing.T) {
	src := solidPNG(t, 512, 256, color.NRGBA{A: 0xff})
	r := NewRenderer(nil)

	out, err := r.Render(src, "hello", noShadow())
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	img := decodeNRGBA(t, out)
	if img.Bounds().Dx() != 512 || img.Bounds().Dy() != 256 {
		t.Fatalf("出力サイズが入力と異なります: %v", img.Bounds())
	}

	// 白いテキストが中央付近にのみ描画される
	bright := 0
	for y := 0; y < 256; y++ {
		for x := 0; x < 512; x++ {
			if img.NRGBAAt(x, y).R > 200 {
				bright++
				if y < 64 || y > 192 {
					t.Fatalf("想定外の位置に描画されています: (%d, %d)", x, y)
				}
			}
		}
	}
	if bright == 0 {
		t.Error("タイトルが描画されていません")
	}
}

func TestRenderer_UsesFillColor(t *testing.T) {
	src := solidPNG(t, 256, 128, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	settings := noShadow()
	settings.Color = "#ff0000"
	settings.FontSize = 120

	out, err := NewRenderer(nil).Render(src, "RED", settings)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	img := decodeNRGBA(t, out)
	found := false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 0xff && img.Pix[i+1] < 0x20 && img.Pix[i+2] < 0x20 {
			found = true
			break
		}
	}
	if !found {
		t.Error("指定した色で描画されていません")
	}
}

func TestRenderer_ShadowChangesOutput(t *testing.T) {
	src := solidPNG(t, 512, 256, color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff})
	r := NewRenderer(nil)

	withShadow := domain.DefaultTextSettings()
	withShadow.Shadow = true
	withShadow.FontSize = 120

	a, err := r.Render(src, "Title", withShadow)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	plain := noShadow()
	plain.FontSize = 120
	b, err := r.Render(src, "Title", plain)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	imgA := decodeNRGBA(t, a)
	imgB := decodeNRGBA(t, b)
	if bytes.Equal(imgA.Pix, imgB.Pix) {
		t.Error("シャドウの有無で出力が変わるべきです")
	}

	// シャドウありの場合は背景より暗い画素が存在する
	darker := false
	for i := 0; i < len(imgA.Pix); i += 4 {
		if imgA.Pix[i] < 0x70 {
			darker = true
			break
		}
	}
	if !darker {
		t.Error("シャドウが描画されていません")
	}
}

func TestRenderer_DoesNotMutateSource(t *testing.T) {
	src := gradientPNG(t, 64, 64)
	original := append([]byte(nil), src...)

	if _, err := NewRenderer(nil).Render(src, "Title", domain.DefaultTextSettings()); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !bytes.Equal(src, original) {
		t.Error("元の画像データが変更されています")
	}
}

func TestRenderer_UnknownFamilyFallsBack(t *testing.T) {
	src := solidPNG(t, 128, 128, color.NRGBA{A: 0xff})
	settings := noShadow()
	settings.FontFamily = "Comic Sans"

	if _, err := NewRenderer(nil).Render(src, "Title", settings); err != nil {
		t.Errorf("未知のフォントは代替されるべきです: %v", err)
	}
}

func TestRenderer_InvalidImage(t *testing.T) {
	if _, err := NewRenderer(nil).Render([]byte("not an image"), "Title", domain.DefaultTextSettings()); err == nil {
		t.Error("デコードできない画像はエラーになるべきです")
	}
}

func TestFontRegistry_AllFamilies(t *testing.T) {
	registry := NewFontRegistry()
	for _, family := range domain.FontFamilies {
		face, err := registry.NewFace(family, 48)
		if err != nil {
			t.Errorf("%s: フェイスの作成に失敗: %v", family, err)
			continue
		}
		if face.Metrics().Height <= 0 {
			t.Errorf("%s: 高さが不正です", family)
		}
		face.Close()
	}

	if len(registry.fonts) != len(domain.FontFamilies) {
		t.Errorf("解析済みフォントがキャッシュされていません: %d", len(registry.fonts))
	}
}
