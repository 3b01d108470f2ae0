package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KirkDiggler/sealedroll/internal/app"
	"github.com/KirkDiggler/sealedroll/internal/config"
	"github.com/KirkDiggler/sealedroll/internal/handlers/discord"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Discord.Token == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	// The bot shares rolls with the HTTP server only through a networked store
	if cfg.StoreBackend == config.BackendMemory {
		log.Println("STORE_BACKEND is memory, rolls will not be visible to the HTTP server")
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create roll service: %v", err)
	}
	defer a.Close()

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Token:         cfg.Discord.Token,
		ApplicationID: cfg.Discord.ApplicationID,
		GuildID:       cfg.Discord.GuildID,
		RollService:   a.RollService,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}
