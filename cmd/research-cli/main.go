// Command research-cli runs the research cache from the terminal: research a
// single club, print cache statistics, or list cached records.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ignite/club-outreach/internal/config"
	"github.com/ignite/club-outreach/internal/costs"
	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/openai"
	"github.com/ignite/club-outreach/internal/repository/memory"
	"github.com/ignite/club-outreach/internal/repository/postgres"
	"github.com/ignite/club-outreach/internal/research"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	var (
		cfgPath = flag.String("config", "config/config.yaml", "path to config file")
		club    = flag.String("club", "", "club name to research")
		website = flag.String("website", "", "club website")
		country = flag.String("country", "", "club country")
		refresh = flag.Bool("refresh", false, "force re-research even if cached")
		stats   = flag.Bool("stats", false, "print cache statistics")
		list    = flag.Bool("list", false, "list cached research records")
	)
	flag.Parse()

	cfg, err := config.LoadFromEnv(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var repo research.Repository = memory.NewResearchRepo()
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("ping database: %v", err)
		}
		repo = postgres.NewResearchRepo(db)
	} else if *stats || *list {
		log.Fatal("DATABASE_URL is required for --stats and --list")
	}

	ledger := costs.NewLedger(cfg.Pricing.PriceTable())
	svc := research.NewService(repo, openai.NewClient(cfg.OpenAI), ledger, research.Options{
		TTL:              cfg.Research.TTL(),
		GeneratorTimeout: cfg.Research.Timeout(),
		SearchModel:      cfg.OpenAI.SearchModel,
		WebSearchFee:     cfg.Pricing.WebSearchPerQuery,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch {
	case *stats:
		st, err := svc.Stats(ctx)
		if err != nil {
			log.Fatalf("stats: %v", err)
		}
		fmt.Printf("Clubs researched: %d\n", st.TotalClubs)
		fmt.Printf("Valid:            %d\n", st.ValidCount)
		fmt.Printf("Expired:          %d\n", st.ExpiredCount)
		fmt.Printf("Total spend:      $%.4f\n", st.TotalCostUSD)

	case *list:
		recs, err := svc.List(ctx)
		if err != nil {
			log.Fatalf("list: %v", err)
		}
		for _, rec := range recs {
			state := "valid"
			if !rec.IsValid {
				state = "fallback"
			}
			if rec.Expired(time.Now()) {
				state = "expired"
			}
			fmt.Printf("%-40s %-10s researched %s  $%.4f\n",
				rec.ClubName, state, rec.ResearchedAt.Format("2006-01-02"), rec.Costs.TotalCost)
		}

	case *club != "":
		target := domain.Club{Name: *club, Website: *website, Country: *country}
		var (
			rec *domain.ResearchRecord
			err error
		)
		if *refresh {
			rec, err = svc.Refresh(ctx, target)
		} else {
			_, rec, err = svc.Get(ctx, target, domain.StageIntroduction)
		}
		if err != nil {
			log.Fatalf("research %s: %v", *club, err)
		}
		fmt.Printf("Research for %s (valid=%t, expires %s, cost $%.4f)\n\n",
			rec.ClubName, rec.IsValid, rec.ExpiresAt.Format("2006-01-02"), rec.Costs.TotalCost)
		fmt.Println(rec.FullResearch)

	default:
		flag.Usage()
		os.Exit(2)
	}
}
