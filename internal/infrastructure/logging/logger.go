package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger は、実行環境に応じたzerolog.Loggerを作成します
// development環境ではデバッグレベルのコンソール出力、それ以外はJSON出力になります
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", "coverflow").
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}
