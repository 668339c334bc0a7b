package overlay

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontSources は、選択可能なフォントファミリーと同梱フォントの対応表です
var fontSources = map[string][]byte{
	"inter":       goregular.TTF,
	"georgia":     goitalic.TTF,
	"impact":      gobold.TTF,
	"courier new": gomono.TTF,
}

const fallbackFamily = "inter"

// FontRegistry は、解析済みのフォントを保持し、指定サイズのフェイスを作成します
type FontRegistry struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

// NewFontRegistry は新しいFontRegistryを作成します
func NewFontRegistry() *FontRegistry {
	return &FontRegistry{fonts: make(map[string]*opentype.Font)}
}

// NewFace は、フォントファミリーとピクセルサイズからフェイスを作成します
// 未知のファミリーは既定のフォントで代替します。フェイスは並行利用できないため呼び出し側でCloseしてください
func (r *FontRegistry) NewFace(family string, size float64) (font.Face, error) {
	f, err := r.lookup(family)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("フォントフェイスの作成に失敗 (%s, %.1fpx): %w", family, size, err)
	}
	return face, nil
}

func (r *FontRegistry) lookup(family string) (*opentype.Font, error) {
	key := strings.ToLower(strings.TrimSpace(family))
	if _, ok := fontSources[key]; !ok {
		key = fallbackFamily
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.fonts[key]; ok {
		return f, nil
	}

	f, err := opentype.Parse(fontSources[key])
	if err != nil {
		return nil, fmt.Errorf("フォントの解析に失敗 (%s): %w", key, err)
	}
	r.fonts[key] = f
	return f, nil
}
