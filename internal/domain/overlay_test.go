package domain

import (
	"math"
	"testing"
)

func TestPlanOverlay_EmptyTitle(t *testing.T) {
	if _, ok := PlanOverlay(1024, 1024, "", DefaultTextSettings()); ok {
		t.Error("タイトルが空の場合は描画しないはずです")
	}
}

func TestPlanOverlay_UppercaseAndScale(t *testing.T) {
	settings := DefaultTextSettings()
	settings.Uppercase = true
	settings.FontSize = 48

	layout, ok := PlanOverlay(1024, 768, "hello", settings)
	if !ok {
		t.Fatal("描画されるべきです")
	}
	if layout.Text != "HELLO" {
		t.Errorf("期待されるテキスト: HELLO, 実際: %s", layout.Text)
	}
	if layout.FontSize != 96 {
		t.Errorf("期待されるフォントサイズ: 96, 実際: %v", layout.FontSize)
	}
	if layout.Scale != 2 {
		t.Errorf("期待される倍率: 2, 実際: %v", layout.Scale)
	}
}

func TestPlanOverlay_KeepsCaseWhenDisabled(t *testing.T) {
	settings := DefaultTextSettings()
	settings.Uppercase = false

	layout, _ := PlanOverlay(512, 512, "Weekly Digest", settings)
	if layout.Text != "Weekly Digest" {
		t.Errorf("期待されるテキスト: Weekly Digest, 実際: %s", layout.Text)
	}
	if layout.FontSize != 48 {
		t.Errorf("期待されるフォントサイズ: 48, 実際: %v", layout.FontSize)
	}
}

func TestPlanOverlay_Position(t *testing.T) {
	settings := DefaultTextSettings()
	settings.YPosition = 25

	layout, _ := PlanOverlay(800, 1000, "Title", settings)
	if layout.X != 400 {
		t.Errorf("期待されるX: 400, 実際: %v", layout.X)
	}
	if layout.Y != 250 {
		t.Errorf("期待されるY: 250, 実際: %v", layout.Y)
	}
}

func TestPlanOverlay_Shadow(t *testing.T) {
	settings := DefaultTextSettings()
	settings.Shadow = true

	layout, _ := PlanOverlay(1536, 1536, "Title", settings)
	if layout.Shadow == nil {
		t.Fatal("シャドウが設定されていません")
	}
	if math.Abs(layout.Shadow.Blur-30) > 1e-9 {
		t.Errorf("期待されるぼかし: 30, 実際: %v", layout.Shadow.Blur)
	}
	if layout.Shadow.OffsetX != 6 || layout.Shadow.OffsetY != 6 {
		t.Errorf("期待されるオフセット: (6,6), 実際: (%v,%v)", layout.Shadow.OffsetX, layout.Shadow.OffsetY)
	}
	if layout.Shadow.Color.A != 179 || layout.Shadow.Color.R != 0 {
		t.Errorf("想定外のシャドウ色: %+v", layout.Shadow.Color)
	}

	settings.Shadow = false
	layout, _ = PlanOverlay(1536, 1536, "Title", settings)
	if layout.Shadow != nil {
		t.Error("シャドウ無効時はシャドウを設定しないはずです")
	}
}
