package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dpup/prefab"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/roadtripbot/server/internal/archive"
	"github.com/roadtripbot/server/internal/cache"
	"github.com/roadtripbot/server/internal/clients/nominatim"
	"github.com/roadtripbot/server/internal/clients/openroute"
	"github.com/roadtripbot/server/internal/clients/opentripmap"
	"github.com/roadtripbot/server/internal/clients/telegram"
	"github.com/roadtripbot/server/internal/config"
	"github.com/roadtripbot/server/internal/conversation"
	"github.com/roadtripbot/server/internal/services"
)

const cacheCleanupInterval = 10 * time.Minute

func main() {
	appConfig := loadConfig()

	if appConfig.Telegram.Token == "" {
		log.Fatal("Telegram bot token is required in configuration")
	}
	if appConfig.Archive.DSN == "" {
		log.Fatal("Archive DSN is required in configuration")
	}

	db, err := gorm.Open(postgres.Open(appConfig.Archive.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open archive database: %v", err)
	}
	tripArchive := archive.NewGormArchive(db)
	if err := tripArchive.Migrate(); err != nil {
		log.Fatalf("Failed to migrate archive schema: %v", err)
	}

	// Initialize cache
	cacheInstance := cache.NewCache()

	// Initialize external API clients
	geocoder := nominatim.NewClient(appConfig.Geocoding.UserAgent)
	router := openroute.NewClient(appConfig.Routing.APIKey)
	places := opentripmap.NewClient(appConfig.Places.APIKey)
	messenger := telegram.NewClient(appConfig.Telegram.Token,
		time.Duration(appConfig.Telegram.PollTimeoutSecs)*time.Second)

	planner := services.NewPlannerService(geocoder, router, places, tripArchive, cacheInstance, appConfig)
	machine := conversation.NewMachine(conversation.NewSessionStore(), planner)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheInstance.StartPeriodicCleanup(ctx, cacheCleanupInterval)

	log.Printf("Road trip planner bot starting")
	log.Printf("Stop sampling: every %.0f km, up to %d stops", appConfig.Places.StepKm, appConfig.Places.MaxStops)
	log.Printf("Long-poll timeout: %ds", appConfig.Telegram.PollTimeoutSecs)

	if err := runPollLoop(ctx, messenger, machine, appConfig.Telegram.PollTimeoutSecs); err != nil {
		log.Fatalf("Poll loop failed: %v", err)
	}
	log.Printf("Shutting down")
}

// runPollLoop long-polls the Bot API and feeds each message through the
// conversation machine. Updates are handled sequentially; per-user ordering
// is additionally guaranteed by the session store locks.
func runPollLoop(ctx context.Context, messenger *telegram.Client, machine *conversation.Machine, timeoutSecs int) error {
	var offset int64

	for {
		updates, err := messenger.GetUpdates(ctx, offset, timeoutSecs)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("getUpdates failed, retrying: %v", err)
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
				continue
			}

			reply := machine.HandleMessage(ctx, update.Message.From.ID, update.Message.Text)
			deliverReply(ctx, messenger, update.Message.Chat.ID, reply)
		}
	}
}

// deliverReply sends the machine's reply back to the chat: the text with an
// optional action keyboard, then any file attachment
func deliverReply(ctx context.Context, messenger *telegram.Client, chatID int64, reply conversation.Reply) {
	if err := messenger.SendMessage(ctx, chatID, reply.Text, actionKeyboard(reply.Actions)); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
		return
	}

	if reply.File != nil {
		if err := messenger.SendDocument(ctx, chatID, reply.File.Name, reply.File.Data); err != nil {
			log.Printf("Failed to send document to chat %d: %v", chatID, err)
		}
	}
}

// actionKeyboard lays the action labels out two per row
func actionKeyboard(actions []conversation.Action) *telegram.ReplyKeyboard {
	if len(actions) == 0 {
		return nil
	}

	var rows [][]string
	for i := 0; i < len(actions); i += 2 {
		row := []string{actions[i].Label()}
		if i+1 < len(actions) {
			row = append(row, actions[i+1].Label())
		}
		rows = append(rows, row)
	}
	return telegram.NewReplyKeyboard(rows...)
}

// loadConfig loads configuration using Prefab's config system.
// Configuration is loaded from prefab.yaml and environment variables with
// PF__ prefix; absent sections keep their defaults.
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	if err := prefab.Config.Unmarshal("telegram", &appConfig.Telegram); err != nil {
		log.Fatalf("Failed to unmarshal telegram section: %v", err)
	}
	if err := prefab.Config.Unmarshal("geocoding", &appConfig.Geocoding); err != nil {
		log.Fatalf("Failed to unmarshal geocoding section: %v", err)
	}
	if err := prefab.Config.Unmarshal("routing", &appConfig.Routing); err != nil {
		log.Fatalf("Failed to unmarshal routing section: %v", err)
	}
	if err := prefab.Config.Unmarshal("places", &appConfig.Places); err != nil {
		log.Fatalf("Failed to unmarshal places section: %v", err)
	}
	if err := prefab.Config.Unmarshal("archive", &appConfig.Archive); err != nil {
		log.Fatalf("Failed to unmarshal archive section: %v", err)
	}

	return appConfig
}
