package application

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"

	"coverflow/internal/domain"

	"github.com/rs/zerolog"
)

// OverlayRenderer は、画像にタイトルを重ねてPNGとして出力するレンダラーのインターフェースです
type OverlayRenderer interface {
	Render(src []byte, title string, settings domain.TextSettings) ([]byte, error)
}

// RenderCache は、描画済みカバーのキャッシュです
type RenderCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte)
}

// Publisher は、完成したカバーを外部に投稿するインターフェースです
type Publisher interface {
	Publish(ctx context.Context, covers []Cover) error
}

// Cover は、ダウンロードや投稿の単位となる描画済みのカバー画像です
type Cover struct {
	ItemID   domain.ItemID
	Position int
	Filename string
	Title    string
	Prompt   string
	Data     []byte
}

// CoverService は、完成したアイテムのカバー描画と書き出しを担当するサービスです
type CoverService struct {
	batch     *BatchService
	renderer  OverlayRenderer
	cache     RenderCache
	publisher Publisher
	logger    zerolog.Logger
}

// NewCoverService は新しいCoverServiceインスタンスを作成します
// cacheとpublisherはnilでも構いません
func NewCoverService(batch *BatchService, renderer OverlayRenderer, cache RenderCache, publisher Publisher, logger zerolog.Logger) *CoverService {
	return &CoverService{
		batch:     batch,
		renderer:  renderer,
		cache:     cache,
		publisher: publisher,
		logger:    logger.With().Str("component", "cover").Logger(),
	}
}

// CoverFilename は、表示位置からダウンロード用のファイル名を返します
func CoverFilename(position int) string {
	return fmt.Sprintf("cover-%d.png", position)
}

// RenderCover は、指定されたアイテムのカバーを描画します
func (s *CoverService) RenderCover(id domain.ItemID) (*Cover, error) {
	item, err := s.batch.Item(id)
	if err != nil {
		return nil, err
	}
	return s.render(item, s.batch.TextSettings())
}

// RenderAll は、完成済みのすべてのアイテムのカバーを表示順に描画します
func (s *CoverService) RenderAll() ([]Cover, error) {
	settings := s.batch.TextSettings()

	var covers []Cover
	for _, item := range s.batch.Items() {
		if item.Status != domain.StatusCompleted {
			continue
		}
		cover, err := s.render(item, settings)
		if err != nil {
			return nil, err
		}
		covers = append(covers, *cover)
	}
	return covers, nil
}

// ExportArchive は、完成済みのカバーをまとめたzipアーカイブを返します
func (s *CoverService) ExportArchive() ([]byte, int, error) {
	covers, err := s.RenderAll()
	if err != nil {
		return nil, 0, err
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, cover := range covers {
		w, err := zw.Create(cover.Filename)
		if err != nil {
			return nil, 0, fmt.Errorf("アーカイブへの追加に失敗 (%s): %w", cover.Filename, err)
		}
		if _, err := w.Write(cover.Data); err != nil {
			return nil, 0, fmt.Errorf("アーカイブへの書き込みに失敗 (%s): %w", cover.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, 0, fmt.Errorf("アーカイブの作成に失敗: %w", err)
	}

	s.logger.Info().Int("covers", len(covers)).Int("bytes", buf.Len()).Msg("カバーをアーカイブに書き出しました")
	return buf.Bytes(), len(covers), nil
}

// PublishCompleted は、完成済みのカバーを投稿先に送信し、送信した件数を返します
func (s *CoverService) PublishCompleted(ctx context.Context) (int, error) {
	if s.publisher == nil {
		return 0, domain.ErrPublisherDisabled
	}

	covers, err := s.RenderAll()
	if err != nil {
		return 0, err
	}
	if len(covers) == 0 {
		return 0, nil
	}

	if err := s.publisher.Publish(ctx, covers); err != nil {
		return 0, fmt.Errorf("カバーの投稿に失敗: %w", err)
	}

	s.logger.Info().Int("covers", len(covers)).Msg("カバーを投稿しました")
	return len(covers), nil
}

// AutoPublishHook は、一括生成の完了後に投稿を行うフックを返します
func (s *CoverService) AutoPublishHook() BatchCompleteHook {
	return func(ctx context.Context) {
		n, err := s.PublishCompleted(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("一括生成後の自動投稿に失敗しました")
			return
		}
		s.logger.Info().Int("covers", n).Msg("一括生成後の自動投稿が完了しました")
	}
}

func (s *CoverService) render(item ItemSnapshot, settings domain.TextSettings) (*Cover, error) {
	if item.Status != domain.StatusCompleted || item.Image == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotReady, item.ID)
	}

	cover := &Cover{
		ItemID:   item.ID,
		Position: item.Position,
		Filename: CoverFilename(item.Position),
		Title:    item.Title,
		Prompt:   item.Prompt,
	}

	key := renderCacheKey(item, settings)
	if s.cache != nil {
		if data, ok := s.cache.Get(key); ok {
			cover.Data = data
			return cover, nil
		}
	}

	data, err := s.renderer.Render(item.Image.Data, item.Title, settings)
	if err != nil {
		return nil, fmt.Errorf("カバーの描画に失敗 (%s): %w", item.ID, err)
	}
	if s.cache != nil {
		s.cache.Set(key, data)
	}

	cover.Data = data
	return cover, nil
}

// renderCacheKey は、描画結果を一意に決める要素からキャッシュキーを作成します
func renderCacheKey(item ItemSnapshot, settings domain.TextSettings) string {
	return fmt.Sprintf("%s:%d:%q:%s:%d:%s:%d:%t:%t",
		item.ID, item.Revision, item.Title,
		settings.FontFamily, settings.FontSize, settings.Color, settings.YPosition,
		settings.Shadow, settings.Uppercase)
}
