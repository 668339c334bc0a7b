package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestRequestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})
	handler := middleware.RequestID(requestLogger(logger)(next))

	req := httptest.NewRequest(http.MethodGet, "/api/teapot", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("ログの解析に失敗: %v (%s)", err, buf.String())
	}

	if entry["path"] != "/api/teapot" {
		t.Errorf("期待されるパス: /api/teapot, 実際: %v", entry["path"])
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("期待されるステータス: %d, 実際: %v", http.StatusTeapot, entry["status"])
	}
	if entry["bytes"] != float64(len("short and stout")) {
		t.Errorf("期待されるバイト数: %d, 実際: %v", len("short and stout"), entry["bytes"])
	}
	if id, _ := entry["request_id"].(string); id == "" {
		t.Error("リクエストIDが記録されていません")
	}
	if entry["level"] != "info" {
		t.Errorf("期待されるレベル: info, 実際: %v", entry["level"])
	}
}

func TestRequestLogger_ServerErrorLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	requestLogger(zerolog.New(buf))(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("ログの解析に失敗: %v", err)
	}
	if entry["level"] != "error" {
		t.Errorf("期待されるレベル: error, 実際: %v", entry["level"])
	}
}
