package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coverflow/configs"
	"coverflow/internal/application"
	"coverflow/internal/infrastructure/cache"
	"coverflow/internal/infrastructure/discord"
	"coverflow/internal/infrastructure/gemini"
	"coverflow/internal/infrastructure/logging"
	"coverflow/internal/infrastructure/overlay"
	"coverflow/internal/infrastructure/server"
	"coverflow/internal/presentation/httpapi"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout は、終了シグナル受信後に処理中のリクエストを待つ時間です
const shutdownTimeout = 30 * time.Second

func main() {
	// 設定を読み込み
	config, err := configs.LoadConfig()
	if err != nil {
		logging.NewLogger("production").Fatal().Err(err).Msg("設定の読み込みに失敗")
	}

	logger := logging.NewLogger(config.Server.AppEnv)
	logger.Info().Str("env", config.Server.AppEnv).Msg("CoverFlowを起動中...")

	// シグナルハンドリング
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Error().Err(err).Msg("異常終了しました")
		os.Exit(1)
	}

	logger.Info().Msg("CoverFlowが正常に停止しました")
}

func run(ctx context.Context, config *configs.Config, logger zerolog.Logger) error {
	// Gemini APIクライアントを作成
	imageClient, err := gemini.NewImageClient(ctx, &config.Gemini, logger)
	if err != nil {
		return err
	}
	defer imageClient.Close()

	// カバー描画とキャッシュを作成
	renderer := overlay.NewRenderer(overlay.NewFontRegistry())
	renderCache := cache.NewRenderCache(config.Batch.RenderCacheTTL)

	// Discordへの投稿先を作成（設定されている場合のみ）
	var publisher application.Publisher
	if config.Discord.Enabled() {
		session, err := discordgo.New("Bot " + config.Discord.BotToken)
		if err != nil {
			return err
		}
		defer session.Close()

		publisher = discord.NewCoverPublisher(session, config.Discord.ChannelID, logger)
		logger.Info().Str("channel_id", config.Discord.ChannelID).Msg("Discordへの投稿が有効です")
	}

	// アプリケーションサービスを作成
	batchService := application.NewBatchService(imageClient, logger, application.BatchOptions{
		DefaultPrompt: config.Batch.DefaultPrompt,
		RateInterval:  config.Batch.RateInterval,
	})
	coverService := application.NewCoverService(batchService, renderer, renderCache, publisher, logger)
	if config.Batch.AutoPublish {
		batchService.SetCompleteHook(coverService.AutoPublishHook())
	}

	// HTTPサーバーを作成
	handler := httpapi.NewHandler(ctx, batchService, coverService, config.Server.MaxUploadBytes, logger)
	httpServer := server.NewHTTPServer(config.Server, httpapi.NewRouter(handler, logger), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("終了シグナルを受信しました。停止中...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	// 実行中の生成はライフサイクルのキャンセルで中断される
	batchService.Wait()
	return err
}
