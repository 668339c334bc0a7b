package discord

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"coverflow/internal/application"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	// DiscordMessageLimit は、Discordの1メッセージあたりの最大文字数です
	DiscordMessageLimit = 2000
	// MaxFilesPerMessage は、1メッセージに添付できるファイル数の上限です
	MaxFilesPerMessage = 10
)

// messageSender は、ファイル付きメッセージを送信するDiscordセッションの一部です
type messageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// CoverPublisher は、完成したカバーをDiscordチャンネルに投稿します
type CoverPublisher struct {
	session   messageSender
	channelID string
	logger    zerolog.Logger
}

// NewCoverPublisher は新しいCoverPublisherインスタンスを作成します
func NewCoverPublisher(session *discordgo.Session, channelID string, logger zerolog.Logger) *CoverPublisher {
	return newCoverPublisher(session, channelID, logger)
}

func newCoverPublisher(session messageSender, channelID string, logger zerolog.Logger) *CoverPublisher {
	return &CoverPublisher{
		session:   session,
		channelID: channelID,
		logger:    logger.With().Str("component", "discord").Str("channel_id", channelID).Logger(),
	}
}

// Publish は、カバーを最大10枚ずつのメッセージに分けて投稿します
func (p *CoverPublisher) Publish(ctx context.Context, covers []application.Cover) error {
	batches := chunkCovers(covers, MaxFilesPerMessage)

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}

		files := make([]*discordgo.File, len(batch))
		for j, cover := range batch {
			files[j] = &discordgo.File{
				Name:        cover.Filename,
				ContentType: "image/png",
				Reader:      bytes.NewReader(cover.Data),
			}
		}

		msg := &discordgo.MessageSend{
			Content: formatCoverMessage(batch, i+1, len(batches)),
			Files:   files,
		}
		if _, err := p.session.ChannelMessageSendComplex(p.channelID, msg); err != nil {
			return fmt.Errorf("Discordへの送信に失敗 (%d/%d): %w", i+1, len(batches), err)
		}

		p.logger.Debug().Int("part", i+1).Int("files", len(files)).Msg("カバーを送信しました")
	}

	return nil
}

// chunkCovers は、カバーを指定数ごとに分割します
func chunkCovers(covers []application.Cover, size int) [][]application.Cover {
	var chunks [][]application.Cover
	for len(covers) > 0 {
		n := size
		if len(covers) < n {
			n = len(covers)
		}
		chunks = append(chunks, covers[:n])
		covers = covers[n:]
	}
	return chunks
}

// formatCoverMessage は、添付するカバーの一覧をメッセージ本文に整形します
func formatCoverMessage(covers []application.Cover, part, total int) string {
	var b strings.Builder
	b.WriteString("🎨 **カバー画像**")
	if total > 1 {
		fmt.Fprintf(&b, " (%d/%d)", part, total)
	}
	b.WriteString("\n")

	for _, cover := range covers {
		title := cover.Title
		if title == "" {
			title = "(タイトルなし)"
		}
		fmt.Fprintf(&b, "#%d %s", cover.Position, title)
		if cover.Prompt != "" {
			fmt.Fprintf(&b, " - %s", cover.Prompt)
		}
		b.WriteString("\n")
	}

	return truncateMessage(b.String(), DiscordMessageLimit)
}

// truncateMessage は、文字数の上限を超える場合に末尾を省略します
func truncateMessage(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
