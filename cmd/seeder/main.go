// Command seeder populates the database with a small set of demo users and
// records for local development. It is idempotent: existing users (matched
// by email) are reused instead of duplicated.
//
// Requires DATABASE_DSN. The demo password for every seeded user is
// "password123".
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres"
	recordrepo "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/record"
	userrepo "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/user"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/app"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/config"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

const demoPassword = "password123"

type demoUser struct {
	email   string
	name    string
	role    domain.UserRole
	manager string // email of the manager, resolved after creation
}

var demoUsers = []demoUser{
	{email: "admin@example.com", name: "Demo Admin", role: domain.UserRoleAdmin},
	{email: "manager@example.com", name: "Demo Manager", role: domain.UserRoleManager},
	{email: "user@example.com", name: "Demo User", role: domain.UserRoleUser, manager: "manager@example.com"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := postgres.Migrate(cfg.Database.DSN); err != nil {
		logger.Error("migrate database", slog.Any("error", err))
		return
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.Any("error", err))
		return
	}
	defer pool.Close()

	users := userrepo.New(pool)
	records := recordrepo.New(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), cfg.Auth.PasswordHashCost)
	if err != nil {
		logger.Error("hash demo password", slog.Any("error", err))
		return
	}
	passwordHash := string(hash)

	teamID := uuid.New()
	byEmail := make(map[string]*domain.User, len(demoUsers))

	for _, du := range demoUsers {
		existing, err := users.GetByEmail(ctx, du.email)
		if err == nil {
			logger.Info("user already seeded", slog.String("email", du.email))
			byEmail[du.email] = existing
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("lookup user", slog.String("email", du.email), slog.Any("error", err))
			return
		}

		u := &domain.User{
			ID:     uuid.New(),
			Email:  du.email,
			Name:   du.name,
			Role:   du.role,
			TeamID: &teamID,
		}
		if du.manager != "" {
			if mgr, ok := byEmail[du.manager]; ok {
				u.ManagerID = &mgr.ID
			}
		}

		created, err := users.Create(ctx, u, &passwordHash)
		if err != nil {
			logger.Error("create user", slog.String("email", du.email), slog.Any("error", err))
			return
		}
		byEmail[du.email] = created
		logger.Info("seeded user", slog.String("email", du.email), slog.String("role", du.role.String()))
	}

	owner := byEmail["user@example.com"]

	demoRecords := []*domain.Record{
		{
			ID:         uuid.New(),
			Type:       domain.RecordTypePOV,
			OwnerID:    owner.ID,
			Visibility: domain.VisibilityPrivate,
			Title:      "ACME Corp proof of value",
			Payload: map[string]any{
				"customer": "ACME Corp",
				"stage":    "scoping",
				"notes":    "Initial discovery call scheduled.",
			},
		},
		{
			ID:         uuid.New(),
			Type:       domain.RecordTypeTRR,
			OwnerID:    owner.ID,
			Visibility: domain.VisibilityTeam,
			Title:      "Q3 threat readiness review",
			Payload: map[string]any{
				"customer": "Globex",
				"findings": []any{"mfa gaps", "stale service accounts"},
			},
		},
	}

	for _, rec := range demoRecords {
		if _, err := records.Create(ctx, rec); err != nil {
			logger.Error("create record", slog.String("title", rec.Title), slog.Any("error", err))
			return
		}
		logger.Info("seeded record", slog.String("title", rec.Title), slog.String("type", rec.Type.String()))
	}

	logger.Info("seed complete", slog.Int("users", len(byEmail)), slog.Int("records", len(demoRecords)))
}
