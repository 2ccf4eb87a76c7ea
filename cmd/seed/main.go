package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"salon_crm_backend/internal/config"
	"salon_crm_backend/internal/database"
	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var defaultServices = []models.Service{
	{Name: "Mens Haircut", Category: "Haircut", Price: 25, Duration: 30},
	{Name: "Womens Haircut", Category: "Haircut", Price: 45, Duration: 60},
	{Name: "Hair Coloring", Category: "Coloring", Price: 80, Duration: 120},
	{Name: "Manicure", Category: "Nails", Price: 20, Duration: 30},
	{Name: "Pedicure", Category: "Nails", Price: 30, Duration: 45},
	{Name: "Eyebrow Threading", Category: "Threading", Price: 100, Duration: 15},
	{Name: "Upper Lip Threading", Category: "Threading", Price: 50, Duration: 10},
	{Name: "Full Legs Waxing", Category: "Waxing", Price: 500, Duration: 45},
	{Name: "Underarms Waxing", Category: "Waxing", Price: 150, Duration: 15},
	{Name: "Bridal Makeup", Category: "Makeup", Price: 5000, Duration: 120},
	{Name: "Party Makeup", Category: "Makeup", Price: 1500, Duration: 60},
	{Name: "Basic Facial", Category: "Skincare", Price: 800, Duration: 45},
	{Name: "Gold Facial", Category: "Skincare", Price: 1500, Duration: 60},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.InitLogger(cfg.Server.LogLevel, true)

	if cfg.Seed.AdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	if err := store.ApplySchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	userRepo := repositories.NewUserRepository()
	serviceRepo := repositories.NewServiceRepository()

	err = store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := seedAdmin(ctx, tx, userRepo, cfg); err != nil {
			return err
		}
		return seedServices(ctx, tx, serviceRepo)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	utils.LogInfo("Seeding complete")
}

func seedAdmin(ctx context.Context, tx *sqlx.Tx, repo repositories.UserRepository, cfg *config.Config) error {
	email := utils.NormalizeEmail(cfg.Seed.AdminEmail)
	_, err := repo.GetUserByEmail(ctx, tx, email)
	if err == nil {
		utils.LogInfo("Admin user already exists", map[string]interface{}{"email": email})
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(cfg.Seed.AdminPassword, cfg.Security.BcryptCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Name:         cfg.Seed.AdminName,
		Email:        email,
		Phone:        utils.NewNullString(strings.TrimSpace(cfg.Seed.AdminPhone)),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := repo.CreateUser(ctx, tx, admin); err != nil {
		return err
	}
	utils.LogInfo("Admin user created", map[string]interface{}{"email": email, "user_id": admin.ID})
	return nil
}

// seedServices inserts each default service whose name is not in the catalogue yet.
func seedServices(ctx context.Context, tx *sqlx.Tx, repo repositories.ServiceRepository) error {
	existing, err := repo.GetServices(ctx, tx)
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, s := range existing {
		names[strings.ToLower(s.Name)] = true
	}

	added := 0
	for _, svc := range defaultServices {
		if names[strings.ToLower(svc.Name)] {
			continue
		}
		svc := svc
		if err := repo.CreateService(ctx, tx, &svc); err != nil {
			return err
		}
		added++
	}
	utils.LogInfo("Default services seeded", map[string]interface{}{"added": added, "skipped": len(defaultServices) - added})
	return nil
}
