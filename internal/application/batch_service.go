package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"coverflow/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultPrompt は、プロンプトが空のアイテムを生成する際に使用するテーマです
const DefaultPrompt = "Professional design variant"

// BatchOptions は、BatchServiceの動作を調整するオプションです
type BatchOptions struct {
	DefaultPrompt string
	// RateInterval は、一括生成時のリクエスト間の最小間隔です。0の場合は待機しません
	RateInterval time.Duration
}

// ItemSnapshot は、表示位置付きのアイテムのコピーです
type ItemSnapshot struct {
	domain.BatchItem
	Position int
}

// BatchStatus は、バッチ全体の処理状況です
type BatchStatus struct {
	IsProcessing bool
	Done         int
	Total        int
	HasBaseImage bool
	ItemCount    int
}

// BatchCompleteHook は、一括生成の完了後に呼び出される関数です
type BatchCompleteHook func(ctx context.Context)

// BatchService は、バッチアイテムの管理と画像生成の進行を担当するサービスです
type BatchService struct {
	generator     ImageGenerator
	logger        zerolog.Logger
	defaultPrompt string
	limiter       *rate.Limiter

	mu         sync.Mutex
	store      *domain.BatchStore
	baseImage  *domain.BaseImage
	settings   domain.TextSettings
	processing bool
	done       int
	total      int
	onComplete BatchCompleteHook

	wg sync.WaitGroup
}

// NewBatchService は新しいBatchServiceインスタンスを作成します
func NewBatchService(generator ImageGenerator, logger zerolog.Logger, opts BatchOptions) *BatchService {
	return NewBatchServiceWithStore(generator, domain.NewBatchStore(), logger, opts)
}

// NewBatchServiceWithStore は、既存のストアを使用してBatchServiceを作成します
func NewBatchServiceWithStore(generator ImageGenerator, store *domain.BatchStore, logger zerolog.Logger, opts BatchOptions) *BatchService {
	defaultPrompt := strings.TrimSpace(opts.DefaultPrompt)
	if defaultPrompt == "" {
		defaultPrompt = DefaultPrompt
	}

	var limiter *rate.Limiter
	if opts.RateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RateInterval), 1)
	}

	return &BatchService{
		generator:     generator,
		logger:        logger.With().Str("component", "batch").Logger(),
		defaultPrompt: defaultPrompt,
		limiter:       limiter,
		store:         store,
		settings:      domain.DefaultTextSettings(),
	}
}

// SetCompleteHook は、一括生成の完了後に呼び出す関数を設定します
func (s *BatchService) SetCompleteHook(hook BatchCompleteHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = hook
}

// SetBaseImage は、ベース画像を置き換えます
func (s *BatchService) SetBaseImage(img domain.BaseImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseImage = &img
	s.logger.Info().
		Str("mime_type", img.MIMEType).
		Int("bytes", len(img.Data)).
		Msg("ベース画像を設定しました")
}

// BaseImage は、現在のベース画像を返します
func (s *BatchService) BaseImage() (domain.BaseImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseImage == nil {
		return domain.BaseImage{}, false
	}
	return *s.baseImage, true
}

// AddItem は、空のアイテムを末尾に追加します
func (s *BatchService) AddItem() ItemSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.store.AddItem()
	return s.snapshotLocked(id)
}

// Import は、改行区切りのテキストを指定されたモードで取り込み、反映した行数を返します
func (s *BatchService) Import(mode domain.ImportMode, text string) (int, error) {
	mode, err := domain.ParseImportMode(string(mode))
	if err != nil {
		return 0, err
	}

	lines := domain.SplitBulkLines(text)
	if len(lines) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case domain.ImportModeTitles:
		created := s.store.ApplyTitlesSequentially(lines)
		s.logger.Info().Int("titles", len(lines)).Int("created", len(created)).Msg("タイトルを一括適用しました")
	default:
		s.store.AddItems(lines)
		s.logger.Info().Int("items", len(lines)).Msg("アイデアを一括追加しました")
	}
	return len(lines), nil
}

// RemoveItem は、アイテムを削除します。存在しない場合は何もしません
func (s *BatchService) RemoveItem(id domain.ItemID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Remove(id)
}

// ClearAll は、すべてのアイテムを削除します
func (s *BatchService) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.store.Clear()
	s.logger.Info().Int("removed", n).Msg("すべてのアイテムを削除しました")
	return n
}

// UpdatePrompt は、アイテムのプロンプトを更新します
func (s *BatchService) UpdatePrompt(id domain.ItemID, prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.UpdatePrompt(id, prompt) {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return nil
}

// UpdateTitle は、アイテムのタイトルを更新します
func (s *BatchService) UpdateTitle(id domain.ItemID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.UpdateTitle(id, title) {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return nil
}

// Items は、すべてのアイテムのスナップショットを表示順に返します
func (s *BatchService) Items() []ItemSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.store.Snapshot()
	out := make([]ItemSnapshot, len(items))
	for i, item := range items {
		out[i] = ItemSnapshot{BatchItem: item, Position: i + 1}
	}
	return out
}

// Item は、指定されたアイテムのスナップショットを返します
func (s *BatchService) Item(id domain.ItemID) (ItemSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.Get(id) == nil {
		return ItemSnapshot{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return s.snapshotLocked(id), nil
}

// TextSettings は、現在のテキスト設定を返します
func (s *BatchService) TextSettings() domain.TextSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateTextSettings は、テキスト設定を検証して置き換えます
func (s *BatchService) UpdateTextSettings(settings domain.TextSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

// Status は、バッチ全体の処理状況を返します
func (s *BatchService) Status() BatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BatchStatus{
		IsProcessing: s.processing,
		Done:         s.done,
		Total:        s.total,
		HasBaseImage: s.baseImage != nil,
		ItemCount:    s.store.Len(),
	}
}

// GenerateSingle は、1つのアイテムの画像を生成し、結果を反映したスナップショットを返します
// 生成自体の失敗はアイテムのエラー状態として記録され、戻り値のエラーにはなりません
func (s *BatchService) GenerateSingle(ctx context.Context, id domain.ItemID) (ItemSnapshot, error) {
	job, err := s.beginGeneration(id, false)
	if err != nil {
		return ItemSnapshot{}, err
	}

	s.runGeneration(ctx, job)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.Get(id) == nil {
		return ItemSnapshot{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return s.snapshotLocked(id), nil
}

// StartGenerateSingle は、前提条件を確認したうえでバックグラウンドで生成を開始します
func (s *BatchService) StartGenerateSingle(ctx context.Context, id domain.ItemID) (ItemSnapshot, error) {
	job, err := s.beginGeneration(id, false)
	if err != nil {
		return ItemSnapshot{}, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runGeneration(ctx, job)
	}()

	return job.snapshot, nil
}

// GenerateAll は、対象となるすべてのアイテムを順番に1件ずつ生成します
// ベース画像がない場合は ErrBaseImageMissing、アイテムがない場合は何もしません
func (s *BatchService) GenerateAll(ctx context.Context) error {
	steps, err := s.beginBatch()
	if err != nil || len(steps) == 0 {
		return err
	}
	return s.runBatch(ctx, steps)
}

// StartGenerateAll は、前提条件を確認したうえでバックグラウンドで一括生成を開始します
// 開始した場合はtrueを返します
func (s *BatchService) StartGenerateAll(ctx context.Context) (bool, error) {
	steps, err := s.beginBatch()
	if err != nil || len(steps) == 0 {
		return false, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.runBatch(ctx, steps); err != nil {
			s.logger.Warn().Err(err).Msg("一括生成を中断しました")
		}
	}()
	return true, nil
}

// Wait は、バックグラウンドで実行中の生成がすべて終了するまで待機します
func (s *BatchService) Wait() {
	s.wg.Wait()
}

// generationJob は、ロックの外で実行する1件分の生成の入力です
type generationJob struct {
	id       domain.ItemID
	base     domain.BaseImage
	prompt   string
	snapshot ItemSnapshot
}

// errNotEligible は、一括生成の対象外になったアイテムを表します
var errNotEligible = errors.New("一括生成の対象外です")

// beginGeneration は、アイテムを生成中に遷移させ、生成に必要な入力を返します
// batchがtrueの場合は、同じロック内で一括生成の対象条件も確認します
func (s *BatchService) beginGeneration(id domain.ItemID, batch bool) (generationJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseImage == nil {
		return generationJob{}, domain.ErrBaseImageMissing
	}

	item := s.store.Get(id)
	if item == nil {
		return generationJob{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	if batch && !item.IsBatchEligible() {
		return generationJob{}, errNotEligible
	}

	if err := item.StartGeneration(); err != nil {
		return generationJob{}, err
	}

	prompt := strings.TrimSpace(item.Prompt)
	if prompt == "" {
		prompt = s.defaultPrompt
	}
	return generationJob{
		id:       id,
		base:     *s.baseImage,
		prompt:   prompt,
		snapshot: s.snapshotLocked(id),
	}, nil
}

// runGeneration は、ロックを保持せずに生成を実行し、結果をアイテムに反映します
func (s *BatchService) runGeneration(ctx context.Context, job generationJob) {
	start := time.Now()
	id := job.id
	s.logger.Debug().Str("item_id", id.String()).Str("prompt", job.prompt).Msg("画像生成を開始します")

	img, err := s.generator.GenerateFromBase(ctx, job.base, job.prompt)
	if err == nil && img == nil {
		err = domain.ErrNoImageInResponse
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.store.Get(id)
	if item == nil {
		s.logger.Info().Str("item_id", id.String()).Msg("生成中に削除されたアイテムの結果を破棄しました")
		return
	}

	if err != nil {
		if ferr := item.Fail(err.Error()); ferr != nil {
			s.logger.Warn().Err(ferr).Str("item_id", id.String()).Msg("アイテムをエラー状態にできませんでした")
			return
		}
		s.logger.Error().
			Err(err).
			Str("item_id", id.String()).
			Dur("elapsed", time.Since(start)).
			Msg("画像生成に失敗しました")
		return
	}

	if cerr := item.Complete(img); cerr != nil {
		s.logger.Warn().Err(cerr).Str("item_id", id.String()).Msg("アイテムを完了状態にできませんでした")
		return
	}
	s.logger.Info().
		Str("item_id", id.String()).
		Int("bytes", len(img.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("画像生成が完了しました")
}

// batchStep は、一括生成の1ステップです
// counted は、開始時点で対象として進捗の分母に含めたかを表します
type batchStep struct {
	id      domain.ItemID
	counted bool
}

// beginBatch は、一括生成の開始条件を確認し、処理対象のスナップショットを返します
func (s *BatchService) beginBatch() ([]batchStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return nil, domain.ErrBatchRunning
	}
	if s.baseImage == nil {
		return nil, domain.ErrBaseImageMissing
	}
	if s.store.Len() == 0 {
		return nil, nil
	}

	ids := s.store.IDs()
	steps := make([]batchStep, len(ids))
	total := 0
	for i, id := range ids {
		counted := s.store.Get(id).IsBatchEligible()
		if counted {
			total++
		}
		steps[i] = batchStep{id: id, counted: counted}
	}

	s.processing = true
	s.done = 0
	s.total = total
	s.logger.Info().Int("items", len(ids)).Int("eligible", total).Msg("一括生成を開始します")
	return steps, nil
}

// runBatch は、スナップショットの順にアイテムを1件ずつ生成します
// 完了フックは処理中フラグを下ろした後、正常に完了した場合のみ呼び出されます
func (s *BatchService) runBatch(ctx context.Context, steps []batchStep) error {
	err := s.processSteps(ctx, steps)
	hook := s.endBatch()
	if err == nil && hook != nil {
		hook(ctx)
	}
	return err
}

func (s *BatchService) processSteps(ctx context.Context, steps []batchStep) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !s.isEligible(step.id) {
			s.skipStep(step)
			continue
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		job, ok := s.beginBatchStep(step.id)
		if !ok {
			s.skipStep(step)
			continue
		}

		s.runGeneration(ctx, job)

		s.mu.Lock()
		if !step.counted {
			s.total++
		}
		s.done++
		s.mu.Unlock()
	}
	return nil
}

// beginBatchStep は、その時点の状態で対象条件を再確認してから生成中に遷移させます
func (s *BatchService) beginBatchStep(id domain.ItemID) (generationJob, bool) {
	job, err := s.beginGeneration(id, true)
	if err != nil {
		if !errors.Is(err, errNotEligible) && !errors.Is(err, domain.ErrItemNotFound) {
			s.logger.Warn().Err(err).Str("item_id", id.String()).Msg("アイテムの生成を開始できませんでした")
		}
		return generationJob{}, false
	}
	return job, true
}

// isEligible は、アイテムが存在し一括生成の対象であるかを判定します
func (s *BatchService) isEligible(id domain.ItemID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.store.Get(id)
	return item != nil && item.IsBatchEligible()
}

// skipStep は、対象外になったアイテムを飛ばし、進捗の分母から除きます
func (s *BatchService) skipStep(step batchStep) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug().Str("item_id", step.id.String()).Msg("対象外のアイテムをスキップしました")
	if step.counted {
		s.total--
	}
}

// endBatch は、処理中フラグを下ろし、完了フックを返します
func (s *BatchService) endBatch() BatchCompleteHook {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
	s.logger.Info().Int("done", s.done).Int("total", s.total).Msg("一括生成が終了しました")
	return s.onComplete
}

func (s *BatchService) snapshotLocked(id domain.ItemID) ItemSnapshot {
	return ItemSnapshot{
		BatchItem: s.store.Get(id).Clone(),
		Position:  s.store.Position(id),
	}
}
