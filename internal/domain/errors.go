package domain

import "errors"

// ドメイン固有のエラー型を定義
var (
	// ErrItemNotFound は、指定されたIDのアイテムが存在しない場合のエラーです
	ErrItemNotFound = errors.New("アイテムが見つかりません")

	// ErrItemBusy は、アイテムがすでに生成中の場合のエラーです
	ErrItemBusy = errors.New("アイテムはすでに生成中です")

	// ErrItemNotReady は、アイテムの画像がまだ生成されていない場合のエラーです
	ErrItemNotReady = errors.New("アイテムの画像はまだ生成されていません")

	// ErrInvalidTransition は、許可されていない状態遷移の場合のエラーです
	ErrInvalidTransition = errors.New("無効な状態遷移です")

	// ErrBaseImageMissing は、ベース画像が設定されていない場合のエラーです
	ErrBaseImageMissing = errors.New("ベース画像が設定されていません")

	// ErrInvalidBaseImage は、ベース画像が不正な場合のエラーです
	ErrInvalidBaseImage = errors.New("無効なベース画像です")

	// ErrInvalidTextSettings は、テキスト設定が不正な場合のエラーです
	ErrInvalidTextSettings = errors.New("無効なテキスト設定です")

	// ErrInvalidImportMode は、一括インポートのモードが不正な場合のエラーです
	ErrInvalidImportMode = errors.New("無効なインポートモードです")

	// ErrNoImageInResponse は、生成応答に画像が含まれていない場合のエラーです
	ErrNoImageInResponse = errors.New("応答に画像が含まれていませんでした")

	// ErrBatchRunning は、一括生成がすでに実行中の場合のエラーです
	ErrBatchRunning = errors.New("一括生成はすでに実行中です")

	// ErrPublisherDisabled は、投稿先が設定されていない場合のエラーです
	ErrPublisherDisabled = errors.New("投稿先が設定されていません")
)
