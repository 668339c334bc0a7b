package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"coverflow/internal/application"
	"coverflow/internal/domain"
)

// errBatchEmpty は、生成対象のアイテムが1件もない場合のエラーです
var errBatchEmpty = errors.New("生成するアイテムがありません")

// itemResponse は、アイテムのJSON表現です
type itemResponse struct {
	ID               string `json:"id"`
	Position         int    `json:"position"`
	Prompt           string `json:"prompt"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	ImageURL         string `json:"imageUrl,omitempty"`
	PreviousImageURL string `json:"previousImageUrl,omitempty"`
	Error            string `json:"error,omitempty"`
	Revision         int    `json:"revision"`
}

func newItemResponse(item application.ItemSnapshot) itemResponse {
	return itemResponse{
		ID:               item.ID.String(),
		Position:         item.Position,
		Prompt:           item.Prompt,
		Title:            item.Title,
		Status:           string(item.Status),
		ImageURL:         item.ImageURL(),
		PreviousImageURL: item.PreviousImage.DataURI(),
		Error:            item.Error,
		Revision:         item.Revision,
	}
}

func newItemResponses(items []application.ItemSnapshot) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = newItemResponse(item)
	}
	return out
}

// statusResponse は、バッチ全体の処理状況のJSON表現です
type statusResponse struct {
	IsProcessing bool `json:"isProcessing"`
	Done         int  `json:"done"`
	Total        int  `json:"total"`
	HasBaseImage bool `json:"hasBaseImage"`
	ItemCount    int  `json:"itemCount"`
}

func newStatusResponse(s application.BatchStatus) statusResponse {
	return statusResponse{
		IsProcessing: s.IsProcessing,
		Done:         s.Done,
		Total:        s.Total,
		HasBaseImage: s.HasBaseImage,
		ItemCount:    s.ItemCount,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor は、エラーに対応するHTTPステータスコードを返します
func statusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrItemBusy),
		errors.Is(err, domain.ErrBatchRunning),
		errors.Is(err, domain.ErrBaseImageMissing),
		errors.Is(err, domain.ErrItemNotReady),
		errors.Is(err, errBatchEmpty):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTextSettings),
		errors.Is(err, domain.ErrInvalidBaseImage),
		errors.Is(err, domain.ErrInvalidImportMode),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrPublisherDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
