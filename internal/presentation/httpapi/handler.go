package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"coverflow/internal/application"
	"coverflow/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// errBadRequest は、リクエストの形式が不正な場合のエラーです
var errBadRequest = errors.New("リクエストが不正です")

// Handler は、バッチ操作とカバー書き出しのHTTPハンドラーです
type Handler struct {
	// ctx は、バックグラウンド生成に使用するアプリケーションのライフサイクルです
	ctx            context.Context
	batch          *application.BatchService
	covers         *application.CoverService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewHandler は新しいHandlerインスタンスを作成します
func NewHandler(ctx context.Context, batch *application.BatchService, covers *application.CoverService, maxUploadBytes int64, logger zerolog.Logger) *Handler {
	return &Handler{
		ctx:            ctx,
		batch:          batch,
		covers:         covers,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Health は、死活監視用のエンドポイントです
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status は、バッチ全体の処理状況を返します
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newStatusResponse(h.batch.Status()))
}

// GetBaseImage は、現在のベース画像をそのまま返します
func (h *Handler) GetBaseImage(w http.ResponseWriter, r *http.Request) {
	base, ok := h.batch.BaseImage()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrBaseImageMissing.Error()})
		h.logger.Debug().Msg("ベース画像が未設定です")
		return
	}
	w.Header().Set("Content-Type", base.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(base.Data)))
	_, _ = w.Write(base.Data)
}

// PutBaseImage は、ベース画像を置き換えます
// multipartの image フィールド、{"dataUri": "..."} 形式のJSON、画像そのもののいずれかを受け付けます
func (h *Handler) PutBaseImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	base, err := h.readBaseImage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	h.batch.SetBaseImage(base)
	writeJSON(w, http.StatusOK, map[string]any{
		"mimeType": base.MIMEType,
		"bytes":    len(base.Data),
	})
}

func (h *Handler) readBaseImage(r *http.Request) (domain.BaseImage, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case mediaType == "multipart/form-data":
		file, header, err := r.FormFile("image")
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				return domain.BaseImage{}, err
			}
			return domain.BaseImage{}, fmt.Errorf("%w: image フィールドが見つかりません: %v", errBadRequest, err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return domain.BaseImage{}, err
		}
		return domain.NewBaseImage(data, header.Header.Get("Content-Type"))

	case mediaType == "application/json":
		var body struct {
			DataURI string `json:"dataUri"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return domain.BaseImage{}, decodeError(err)
		}
		return domain.ParseDataURI(body.DataURI)

	default:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return domain.BaseImage{}, err
		}
		return domain.NewBaseImage(data, mediaType)
	}
}

// GetSettings は、現在のテキスト設定を返します
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.batch.TextSettings())
}

// PutSettings は、テキスト設定を置き換えます
// 省略されたフィールドは現在の値を引き継ぎます
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.batch.TextSettings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, decodeError(err))
		return
	}

	if err := h.batch.UpdateTextSettings(settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// ListItems は、すべてのアイテムを表示順に返します
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": newItemResponses(h.batch.Items()),
	})
}

// AddItem は、空のアイテムを追加します
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, newItemResponse(h.batch.AddItem()))
}

// ClearItems は、すべてのアイテムを削除します。誤操作防止のため confirm=true が必要です
func (h *Handler) ClearItems(w http.ResponseWriter, r *http.Request) {
	if confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirm {
		writeError(w, fmt.Errorf("%w: すべて削除するには confirm=true を指定してください", errBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": h.batch.ClearAll()})
}

// ImportItems は、改行区切りのテキストをアイデアまたはタイトルとして取り込みます
func (h *Handler) ImportItems(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, decodeError(err))
		return
	}

	n, err := h.batch.Import(domain.ImportMode(body.Mode), body.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"imported": n,
		"items":    newItemResponses(h.batch.Items()),
	})
}

// GetItem は、1件のアイテムを返します
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.batch.Item(itemID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemResponse(item))
}

// UpdateItem は、アイテムのプロンプトとタイトルを更新します
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt *string `json:"prompt"`
		Title  *string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, decodeError(err))
		return
	}

	id := itemID(r)
	if body.Prompt != nil {
		if err := h.batch.UpdatePrompt(id, *body.Prompt); err != nil {
			writeError(w, err)
			return
		}
	}
	if body.Title != nil {
		if err := h.batch.UpdateTitle(id, *body.Title); err != nil {
			writeError(w, err)
			return
		}
	}

	h.GetItem(w, r)
}

// RemoveItem は、アイテムを削除します。存在しない場合も成功として扱います
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.batch.RemoveItem(itemID(r))
	w.WriteHeader(http.StatusNoContent)
}

// GenerateItem は、1件のアイテムの生成をバックグラウンドで開始します
func (h *Handler) GenerateItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.batch.StartGenerateSingle(h.ctx, itemID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, newItemResponse(item))
}

// GenerateAll は、一括生成をバックグラウンドで開始します
func (h *Handler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	started, err := h.batch.StartGenerateAll(h.ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if !started {
		writeError(w, errBatchEmpty)
		return
	}
	writeJSON(w, http.StatusAccepted, newStatusResponse(h.batch.Status()))
}

// DownloadCover は、タイトルを重ねたカバー画像をPNGで返します
func (h *Handler) DownloadCover(w http.ResponseWriter, r *http.Request) {
	cover, err := h.covers.RenderCover(itemID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, "image/png", cover.Filename, cover.Data)
}

// DownloadArchive は、完成済みのカバーをまとめたzipを返します
func (h *Handler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	data, n, err := h.covers.ExportArchive()
	if err != nil {
		writeError(w, err)
		return
	}
	if n == 0 {
		writeError(w, fmt.Errorf("%w: 完成したカバーがありません", domain.ErrItemNotReady))
		return
	}
	writeAttachment(w, "application/zip", "covers.zip", data)
}

// Publish は、完成済みのカバーを投稿先に送信します
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	n, err := h.covers.PublishCompleted(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"published": n})
}

func itemID(r *http.Request) domain.ItemID {
	return domain.ItemID(strings.TrimSpace(chi.URLParam(r, "id")))
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decodeError は、JSONのデコードエラーを適切なエラーに変換します
func decodeError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: JSONの解析に失敗: %v", errBadRequest, err)
}
