package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"coverflow/internal/infrastructure/config"

	"github.com/rs/zerolog"
)

// HTTPServer は、http.Serverの起動と停止をまとめたラッパーです
type HTTPServer struct {
	server *http.Server
	logger zerolog.Logger
}

// NewHTTPServer は新しいHTTPServerインスタンスを作成します
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler, logger zerolog.Logger) *HTTPServer {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return &HTTPServer{
		server: srv,
		logger: logger.With().Str("component", "http").Logger(),
	}
}

// Start は、設定されたポートで待ち受け、現在のゴルーチンでサーバーを起動します
// Shutdownによる正常な停止の場合はnilを返します
func (s *HTTPServer) Start() error {
	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("%s での待ち受けに失敗: %w", s.server.Addr, err)
	}
	return s.Serve(l)
}

// Serve は、既存のリスナーでサーバーを起動します
func (s *HTTPServer) Serve(l net.Listener) error {
	s.logger.Info().Str("addr", l.Addr().String()).Msg("HTTPサーバーを起動します")
	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown は、処理中のリクエストの完了を待ってサーバーを停止します
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("HTTPサーバーを停止します")
	return s.server.Shutdown(ctx)
}
