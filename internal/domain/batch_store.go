package domain

import (
	"strings"

	"github.com/google/uuid"
)

// BatchStore は、バッチアイテムを挿入順に保持するコレクションです
// 同期は呼び出し側の責務です
type BatchStore struct {
	items []*BatchItem
	newID func() ItemID
}

// NewBatchStore は、新しいBatchStoreを作成します
func NewBatchStore() *BatchStore {
	return &BatchStore{
		newID: func() ItemID { return ItemID(uuid.NewString()) },
	}
}

// NewBatchStoreWithIDGenerator は、ID生成関数を指定してBatchStoreを作成します
func NewBatchStoreWithIDGenerator(newID func() ItemID) *BatchStore {
	return &BatchStore{newID: newID}
}

// AddItem は、空のプロンプトで新しいアイテムを追加します
func (s *BatchStore) AddItem() ItemID {
	return s.append("", "")
}

// AddItems は、空白でない各プロンプトごとにアイテムを追加します
func (s *BatchStore) AddItems(prompts []string) []ItemID {
	ids := make([]ItemID, 0, len(prompts))
	for _, prompt := range prompts {
		prompt = strings.TrimSpace(prompt)
		if prompt == "" {
			continue
		}
		ids = append(ids, s.append(prompt, ""))
	}
	return ids
}

// ApplyTitlesSequentially は、既存アイテムに先頭から順にタイトルを割り当てます
// アイテム数を超えたタイトルは、空のプロンプトを持つ新しいアイテムとして末尾に追加されます
func (s *BatchStore) ApplyTitlesSequentially(titles []string) []ItemID {
	var created []ItemID
	for i, title := range titles {
		title = strings.TrimSpace(title)
		if i < len(s.items) {
			s.items[i].Title = title
			continue
		}
		created = append(created, s.append("", title))
	}
	return created
}

// Remove は、指定されたアイテムを削除します
// 存在しない場合は何もせずfalseを返します
func (s *BatchStore) Remove(id ItemID) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return true
}

// Clear は、すべてのアイテムを削除し、削除した件数を返します
func (s *BatchStore) Clear() int {
	n := len(s.items)
	s.items = nil
	return n
}

// UpdatePrompt は、指定されたアイテムのプロンプトを更新します
func (s *BatchStore) UpdatePrompt(id ItemID, prompt string) bool {
	item := s.Get(id)
	if item == nil {
		return false
	}
	item.Prompt = prompt
	return true
}

// UpdateTitle は、指定されたアイテムのタイトルを更新します
func (s *BatchStore) UpdateTitle(id ItemID, title string) bool {
	item := s.Get(id)
	if item == nil {
		return false
	}
	item.Title = title
	return true
}

// Get は、指定されたアイテムを返します。存在しない場合はnilです
func (s *BatchStore) Get(id ItemID) *BatchItem {
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx]
	}
	return nil
}

// Position は、アイテムの1始まりの表示位置を返します。存在しない場合は0です
func (s *BatchStore) Position(id ItemID) int {
	return s.indexOf(id) + 1
}

// IDs は、現在の順序でアイテムIDのスナップショットを返します
func (s *BatchStore) IDs() []ItemID {
	ids := make([]ItemID, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	return ids
}

// Snapshot は、現在の順序でアイテムのコピーを返します
func (s *BatchStore) Snapshot() []BatchItem {
	out := make([]BatchItem, len(s.items))
	for i, item := range s.items {
		out[i] = item.Clone()
	}
	return out
}

// Len は、アイテム数を返します
func (s *BatchStore) Len() int {
	return len(s.items)
}

func (s *BatchStore) append(prompt, title string) ItemID {
	id := s.newID()
	s.items = append(s.items, NewBatchItem(id, prompt, title))
	return id
}

func (s *BatchStore) indexOf(id ItemID) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
