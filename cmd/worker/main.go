package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"database/sql"

	"github.com/ignite/club-outreach/internal/brevo"
	"github.com/ignite/club-outreach/internal/config"
	"github.com/ignite/club-outreach/internal/notify"
	"github.com/ignite/club-outreach/internal/repository/postgres"
	"github.com/ignite/club-outreach/internal/responses"
	"github.com/ignite/club-outreach/internal/status"
	"github.com/ignite/club-outreach/internal/worker"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Standalone follow-up sweeper for multi-process deployments. Requires a
// shared database; with in-memory stores the sweep runs inside cmd/server
// instead.
func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.LoadFromEnv(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required for the standalone worker")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to PostgreSQL")

	notifySvc := notify.NewService(postgres.NewNotificationRepo(db))
	statusSvc := status.NewService(postgres.NewStatusRepo(db), notifySvc)

	var replySource responses.Source
	if cfg.Brevo.Enabled {
		brevoClient := brevo.NewClient(cfg.Brevo)
		if err := brevoClient.TestConnection(context.Background()); err != nil {
			log.Printf("Warning: Brevo connection test failed: %v", err)
		}
		replySource = responses.NewBrevoSource(brevoClient, 30)
	}
	responsesSvc := responses.NewService(postgres.NewResponseRepo(db), statusSvc, replySource)

	followUps := worker.NewFollowUpWorker(statusSvc, notifySvc, responsesSvc,
		cfg.Outreach.FollowUpThreshold(), cfg.Outreach.TickInterval())
	if err := followUps.Start(); err != nil {
		log.Fatalf("Failed to start follow-up worker: %v", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	followUps.Stop()
}
