package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultImageMIMEType は、MIMEタイプが不明な場合に使用する値です
const DefaultImageMIMEType = "image/png"

// BaseImage は、すべてのバリアントの元になる参照画像を表す値オブジェクトです
type BaseImage struct {
	Data     []byte
	MIMEType string
}

// NewBaseImage は、新しいBaseImageを作成します
// mimeTypeが空の場合はデータから推定します
func NewBaseImage(data []byte, mimeType string) (BaseImage, error) {
	if len(data) == 0 {
		return BaseImage{}, fmt.Errorf("%w: データが空です", ErrInvalidBaseImage)
	}

	mimeType = strings.TrimSpace(strings.ToLower(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return BaseImage{}, fmt.Errorf("%w: 画像ではありません (%s)", ErrInvalidBaseImage, mimeType)
	}

	return BaseImage{Data: data, MIMEType: mimeType}, nil
}

// ParseDataURI は、data URI形式の文字列からBaseImageを作成します
func ParseDataURI(uri string) (BaseImage, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return BaseImage{}, fmt.Errorf("%w: data URIではありません", ErrInvalidBaseImage)
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return BaseImage{}, fmt.Errorf("%w: data URIにデータ部がありません", ErrInvalidBaseImage)
	}

	mimeType, params, _ := strings.Cut(header, ";")
	if !strings.Contains(params, "base64") {
		return BaseImage{}, fmt.Errorf("%w: base64以外のdata URIには対応していません", ErrInvalidBaseImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return BaseImage{}, fmt.Errorf("%w: base64のデコードに失敗: %v", ErrInvalidBaseImage, err)
	}

	return NewBaseImage(data, mimeType)
}

// DataURI は、ベース画像をdata URI形式で返します
func (b BaseImage) DataURI() string {
	return encodeDataURI(b.MIMEType, b.Data)
}

// GeneratedImage は、画像生成サービスが返した画像を表します
type GeneratedImage struct {
	Data        []byte
	MIMEType    string
	GeneratedAt time.Time
}

// NewGeneratedImage は、新しいGeneratedImageを作成します
func NewGeneratedImage(data []byte, mimeType string) *GeneratedImage {
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}
	return &GeneratedImage{
		Data:        data,
		MIMEType:    mimeType,
		GeneratedAt: time.Now(),
	}
}

// DataURI は、生成画像をそのまま表示可能なdata URI形式で返します
func (g *GeneratedImage) DataURI() string {
	if g == nil {
		return ""
	}
	return encodeDataURI(g.MIMEType, g.Data)
}

func encodeDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
