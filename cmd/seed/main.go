// Command seed resets the database and loads demo accounts plus a spread of
// feature clicks over the trailing 90 days. Intended for local development
// and dashboard demos only.
package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/featurelens/usage-analytics/internal/adapters/postgres"
	"github.com/featurelens/usage-analytics/internal/adapters/security"
	"github.com/featurelens/usage-analytics/internal/app/bootstrap"
	"github.com/featurelens/usage-analytics/internal/domain"
	"github.com/featurelens/usage-analytics/internal/ports"
)

var featureNames = []string{
	"date_filter",
	"gender_filter",
	"age_filter",
	"bar_chart_zoom",
	"line_chart_hover",
	"export_data",
	"refresh_data",
}

var demoAccounts = []struct {
	username string
	age      int
	gender   string
}{
	{"user1", 16, "Male"},
	{"user2", 25, "Female"},
	{"user3", 32, "Male"},
	{"user4", 45, "Female"},
	{"user5", 55, "Other"},
	{"user6", 17, "Female"},
	{"user7", 28, "Male"},
	{"user8", 38, "Female"},
	{"user9", 50, "Male"},
	{"user10", 22, "Other"},
}

const demoPassword = "password123"

func main() {
	ctx := context.Background()

	cfg, err := bootstrap.LoadConfig("configs/default.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	if err := db.WithContext(ctx).Exec("TRUNCATE feature_clicks, accounts").Error; err != nil {
		log.Fatalf("clear existing data: %v", err)
	}

	repos := postgres.NewRepositories(db, cfg.StorageTimeout)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	// All demo accounts share one password, so hash once.
	passwordHash, err := hasher.Hash(demoPassword)
	if err != nil {
		log.Fatalf("hash demo password: %v", err)
	}

	now := time.Now().UTC()
	accounts := make([]domain.Account, 0, len(demoAccounts))
	for _, demo := range demoAccounts {
		account, err := repos.Accounts.Create(ctx, ports.CreateAccountParams{
			Username:     demo.username,
			PasswordHash: passwordHash,
			Age:          demo.age,
			Gender:       demo.gender,
			RegisteredAt: now,
		})
		if err != nil {
			log.Fatalf("create account %s: %v", demo.username, err)
		}
		accounts = append(accounts, account)
	}
	log.Printf("created %d accounts (shared password: %s)", len(accounts), demoPassword)

	rng := rand.New(rand.NewSource(now.UnixNano()))
	windowStart := now.AddDate(0, 0, -90)
	window := now.Sub(windowStart)
	for i := 0; i < 100; i++ {
		account := accounts[rng.Intn(len(accounts))]
		_, err := repos.Events.Append(ctx, domain.FeatureClick{
			AccountID:   account.AccountID,
			FeatureName: featureNames[rng.Intn(len(featureNames))],
			ClickedAt:   windowStart.Add(time.Duration(rng.Int63n(int64(window)))),
		})
		if err != nil {
			log.Fatalf("append click: %v", err)
		}
	}
	log.Printf("created 100 feature clicks across the last 90 days")
}
