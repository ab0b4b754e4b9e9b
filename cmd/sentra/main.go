package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sentra-dev/sentra/db"
	"github.com/sentra-dev/sentra/internal/auth"
	"github.com/sentra-dev/sentra/internal/handlers"
	"github.com/sentra-dev/sentra/internal/notifier"
	"github.com/sentra-dev/sentra/internal/router"
	"github.com/sentra-dev/sentra/internal/watchdog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	telegram, err := notifier.NewTelegramGateway(os.Getenv("TELEGRAM_BOT_TOKEN"))

	if err != nil {
		log.Fatalf("Failed to configure Telegram gateway: %v", err)
	}

	whatsapp, err := notifier.NewWhatsAppGateway(os.Getenv("FONNTE_TOKEN"))

	if err != nil {
		log.Fatalf("Failed to configure WhatsApp gateway: %v", err)
	}

	registry := notifier.NewContactRegistry(db.DB)
	audit := notifier.NewAuditLog(db.DB)
	dispatcher := notifier.NewDispatcher(registry, audit, os.Getenv("PUBLIC_BASE_URL"), telegram, whatsapp)
	resolver := notifier.NewResolver(db.DB, dispatcher)

	dog := watchdog.New(db.DB, 60*time.Second)
	dog.Start()
	defer dog.Stop()

	hub := handlers.NewAlertHub()

	h := handlers.New(dispatcher, resolver, registry, audit, telegram, hub)

	r := router.NewRouter(h)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
