package domain

import (
	"errors"
	"testing"
)

func TestTextSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TextSettings)
		wantErr bool
	}{
		{"デフォルト", func(s *TextSettings) {}, false},
		{"最小フォントサイズ", func(s *TextSettings) { s.FontSize = 10 }, false},
		{"最大フォントサイズ", func(s *TextSettings) { s.FontSize = 200 }, false},
		{"フォントサイズが小さすぎる", func(s *TextSettings) { s.FontSize = 9 }, true},
		{"フォントサイズが大きすぎる", func(s *TextSettings) { s.FontSize = 201 }, true},
		{"縦位置が負", func(s *TextSettings) { s.YPosition = -1 }, true},
		{"縦位置が100超", func(s *TextSettings) { s.YPosition = 101 }, true},
		{"短縮形の色", func(s *TextSettings) { s.Color = "#f0a" }, false},
		{"不正な色", func(s *TextSettings) { s.Color = "white" }, true},
		{"フォントファミリーが空", func(s *TextSettings) { s.FontFamily = " " }, true},
		{"未対応のフォントファミリー", func(s *TextSettings) { s.FontFamily = "Comic Sans" }, true},
		{"大文字小文字の違いは許容", func(s *TextSettings) { s.FontFamily = "courier new" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultTextSettings()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("期待されるエラー有無: %v, 実際: %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidTextSettings) {
				t.Errorf("ErrInvalidTextSettings でラップされるべきです: %v", err)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	if err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if c.R != 0xff || c.G != 0x80 || c.B != 0x00 || c.A != 0xff {
		t.Errorf("想定外の色: %+v", c)
	}

	c, err = ParseHexColor("#fff")
	if err != nil {
		t.Fatalf("短縮形の解析に失敗: %v", err)
	}
	if c.R != 0xff || c.G != 0xff || c.B != 0xff {
		t.Errorf("想定外の色: %+v", c)
	}
}

func TestIsSupportedFontFamily(t *testing.T) {
	for _, family := range FontFamilies {
		if !IsSupportedFontFamily(family) {
			t.Errorf("%s は対応フォントであるべきです", family)
		}
	}
	if IsSupportedFontFamily("Papyrus") {
		t.Error("Papyrus は未対応であるべきです")
	}
}
