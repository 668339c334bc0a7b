package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

// coverPublishPermissions は、カバー投稿に必要な権限の合計です
const coverPublishPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionAttachFiles

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("警告: .envファイルの読み込みに失敗しました: %v", err)
	}

	// Bot Tokenを取得
	botToken := os.Getenv("DISCORD_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN が設定されていません")
	}

	// Discordセッションを作成
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		log.Fatalf("Discordセッションの作成に失敗: %v", err)
	}
	defer session.Close()

	// Botの情報を取得
	user, err := session.User("@me")
	if err != nil {
		log.Fatalf("Bot情報の取得に失敗: %v", err)
	}

	fmt.Printf("🤖 Bot情報:\n")
	fmt.Printf("   名前: %s#%s\n", user.Username, user.Discriminator)
	fmt.Printf("   ID: %s\n", user.ID)
	fmt.Println()

	// 招待URLを生成
	inviteURL := fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=%d&scope=bot", user.ID, coverPublishPermissions)

	fmt.Printf("🔗 Bot招待URL:\n")
	fmt.Printf("   %s\n", inviteURL)
	fmt.Println()

	fmt.Printf("📋 必要な権限:\n")
	fmt.Printf("   - View Channel (%d)\n", discordgo.PermissionViewChannel)
	fmt.Printf("   - Send Messages (%d)\n", discordgo.PermissionSendMessages)
	fmt.Printf("   - Attach Files (%d)\n", discordgo.PermissionAttachFiles)
	fmt.Printf("   - 合計: %d\n", coverPublishPermissions)
	fmt.Println()

	fmt.Printf("💡 使用方法:\n")
	fmt.Printf("   1. 上記のURLからBotを投稿先のサーバーに招待\n")
	fmt.Printf("   2. 投稿先チャンネルのIDを DISCORD_CHANNEL_ID に設定\n")
	fmt.Printf("   3. POST /api/publish または BATCH_AUTO_PUBLISH=true でカバーを投稿\n")
}
