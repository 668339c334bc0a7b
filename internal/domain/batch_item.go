package domain

import (
	"fmt"
	"strings"
)

// ItemID は、バッチアイテムを一意に識別するIDです
type ItemID string

// String は、ItemIDの文字列表現を返します
func (id ItemID) String() string {
	return string(id)
}

// ItemStatus は、バッチアイテムの生成状態を表します
type ItemStatus string

const (
	StatusIdle       ItemStatus = "idle"
	StatusGenerating ItemStatus = "generating"
	StatusCompleted  ItemStatus = "completed"
	StatusError      ItemStatus = "error"
)

// BatchItem は、1つのバリアント（プロンプトとオーバーレイタイトルの組）を表すエンティティです
//
// 状態遷移は idle → generating → {completed | error} で、
// completed と error からは再生成により generating に戻ります。
// Image は status == completed の場合のみ、Error は status == error の場合のみ設定されます。
type BatchItem struct {
	ID     ItemID
	Prompt string
	Title  string
	Status ItemStatus
	Image  *GeneratedImage
	Error  string

	// PreviousImage は、再生成中または再生成失敗後も表示できるよう保持する直前の画像です
	PreviousImage *GeneratedImage

	// Revision は、生成に成功するたびに増加します
	Revision int
}

// NewBatchItem は、idle状態の新しいBatchItemを作成します
func NewBatchItem(id ItemID, prompt, title string) *BatchItem {
	return &BatchItem{
		ID:     id,
		Prompt: prompt,
		Title:  title,
		Status: StatusIdle,
	}
}

// HasPrompt は、空白以外のプロンプトが設定されているかを判定します
func (i *BatchItem) HasPrompt() bool {
	return strings.TrimSpace(i.Prompt) != ""
}

// IsBatchEligible は、一括生成の対象になるかを判定します
func (i *BatchItem) IsBatchEligible() bool {
	return i.HasPrompt() && i.Status != StatusCompleted && i.Status != StatusGenerating
}

// StartGeneration は、アイテムを生成中の状態に遷移させます
func (i *BatchItem) StartGeneration() error {
	switch i.Status {
	case StatusGenerating:
		return fmt.Errorf("%w: %s", ErrItemBusy, i.ID)
	case StatusIdle, StatusCompleted, StatusError:
	default:
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, i.Status, StatusGenerating)
	}

	if i.Image != nil {
		i.PreviousImage = i.Image
	}
	i.Image = nil
	i.Error = ""
	i.Status = StatusGenerating
	return nil
}

// Complete は、生成成功によりアイテムを完了状態に遷移させます
func (i *BatchItem) Complete(image *GeneratedImage) error {
	if i.Status != StatusGenerating {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, i.Status, StatusCompleted)
	}
	if image == nil {
		return fmt.Errorf("%w: 画像がありません", ErrInvalidTransition)
	}

	i.Image = image
	i.PreviousImage = nil
	i.Error = ""
	i.Status = StatusCompleted
	i.Revision++
	return nil
}

// Fail は、生成失敗によりアイテムをエラー状態に遷移させます
func (i *BatchItem) Fail(message string) error {
	if i.Status != StatusGenerating {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, i.Status, StatusError)
	}
	if strings.TrimSpace(message) == "" {
		message = "不明なエラーが発生しました"
	}

	i.Image = nil
	i.Error = message
	i.Status = StatusError
	return nil
}

// ImageURL は、完了済みの場合に画像のdata URIを返します
func (i *BatchItem) ImageURL() string {
	if i.Status != StatusCompleted {
		return ""
	}
	return i.Image.DataURI()
}

// Clone は、アイテムのコピーを返します
// 画像データは不変として扱うため共有します
func (i *BatchItem) Clone() BatchItem {
	return *i
}
