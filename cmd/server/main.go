package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ignite/club-outreach/internal/api"
	"github.com/ignite/club-outreach/internal/brevo"
	"github.com/ignite/club-outreach/internal/config"
	"github.com/ignite/club-outreach/internal/content"
	"github.com/ignite/club-outreach/internal/costs"
	"github.com/ignite/club-outreach/internal/notify"
	"github.com/ignite/club-outreach/internal/openai"
	"github.com/ignite/club-outreach/internal/repository/memory"
	"github.com/ignite/club-outreach/internal/repository/postgres"
	redisrepo "github.com/ignite/club-outreach/internal/repository/redis"
	"github.com/ignite/club-outreach/internal/research"
	"github.com/ignite/club-outreach/internal/responses"
	"github.com/ignite/club-outreach/internal/status"
	"github.com/ignite/club-outreach/internal/worker"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type stores struct {
	research research.Repository
	emails   content.Repository
	status   status.Repository
	notify   notify.Repository
	replies  responses.Repository
}

// buildStores selects Postgres when DATABASE_URL is configured, otherwise the
// in-memory single-process stores.
func buildStores(cfg *config.Config) (stores, error) {
	if cfg.Database.URL == "" {
		log.Println("No DATABASE_URL configured, using in-memory stores")
		return stores{
			research: memory.NewResearchRepo(),
			emails:   memory.NewEmailRepo(),
			status:   memory.NewStatusRepo(),
			notify:   memory.NewNotificationRepo(),
			replies:  memory.NewResponseRepo(),
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return stores{}, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return stores{}, fmt.Errorf("ping database: %w", err)
	}
	log.Println("Connected to PostgreSQL")

	return stores{
		research: postgres.NewResearchRepo(db),
		emails:   postgres.NewEmailRepo(db),
		status:   postgres.NewStatusRepo(db),
		notify:   postgres.NewNotificationRepo(db),
		replies:  postgres.NewResponseRepo(db),
	}, nil
}

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.LoadFromEnv(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := buildStores(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize stores: %v", err)
	}

	if cfg.Redis.Enabled {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
		if err := redisrepo.Ping(context.Background(), rdb); err != nil {
			log.Fatalf("Redis configured but unreachable: %v", err)
		}
		st.research = redisrepo.NewResearchCache(rdb, st.research)
		log.Printf("Research cache layered over Redis at %s", cfg.Redis.Addr)
	}

	ledger := costs.NewLedger(cfg.Pricing.PriceTable())
	aiClient := openai.NewClient(cfg.OpenAI)

	notifySvc := notify.NewService(st.notify)
	statusSvc := status.NewService(st.status, notifySvc)
	researchSvc := research.NewService(st.research, aiClient, ledger, research.Options{
		TTL:              cfg.Research.TTL(),
		GeneratorTimeout: cfg.Research.Timeout(),
		SearchModel:      cfg.OpenAI.SearchModel,
		WebSearchFee:     cfg.Pricing.WebSearchPerQuery,
	})
	contentSvc := content.NewService(st.emails, aiClient, researchSvc, statusSvc, ledger, content.Options{
		ContentModel:     cfg.OpenAI.ContentModel,
		GeneratorTimeout: cfg.OpenAI.Timeout(),
	})

	var replySource responses.Source
	if cfg.Brevo.Enabled {
		brevoClient := brevo.NewClient(cfg.Brevo)
		if err := brevoClient.TestConnection(context.Background()); err != nil {
			log.Printf("Warning: Brevo connection test failed: %v", err)
		} else {
			log.Println("Brevo connection verified")
		}
		contentSvc.WithSender(content.NewBrevoSender(brevoClient))
		replySource = responses.NewBrevoSource(brevoClient, 30)
	}
	responsesSvc := responses.NewService(st.replies, statusSvc, replySource)

	followUps := worker.NewFollowUpWorker(statusSvc, notifySvc, responsesSvc,
		cfg.Outreach.FollowUpThreshold(), cfg.Outreach.TickInterval())
	if err := followUps.Start(); err != nil {
		log.Fatalf("Failed to start follow-up worker: %v", err)
	}

	h := api.NewHandlers(researchSvc, contentSvc, statusSvc, notifySvc, responsesSvc, ledger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	h.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	followUps.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
