// Seeds the initial users (admin plus sample role accounts) into MongoDB.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/sihmcb/backend/auth"
	"github.com/sihmcb/backend/config"
	"github.com/sihmcb/backend/database"
	"github.com/sihmcb/backend/models"
	"github.com/sihmcb/backend/repository"
)

type seedUser struct {
	Username string
	Email    string
	Role     string
	Password string
}

var usersToCreate = []seedUser{
	{Username: "admin", Email: "admin@sih-mcb.com", Role: "admin", Password: "admin123"},
	{Username: "engineer", Email: "engineer@sih-mcb.com", Role: "engineer", Password: "engineer123"},
	{Username: "operator", Email: "operator@sih-mcb.com", Role: "operator", Password: "operator123"},
	{Username: "viewer", Email: "viewer@sih-mcb.com", Role: "viewer", Password: "viewer123"},
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepository(db.DB())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := users.Count(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to count users: %v", err)
	}
	fmt.Printf("📋 Current users count: %d\n", count)

	created, skipped := 0, 0
	for _, su := range usersToCreate {
		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			log.Fatalf("❌ Failed to hash password for %s: %v", su.Username, err)
		}

		now := time.Now().UTC()
		_, err = users.Insert(ctx, &models.User{
			Username:     su.Username,
			Email:        su.Email,
			Role:         su.Role,
			PasswordHash: hash,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		switch {
		case err == nil:
			fmt.Printf("✅ Created user %q (%s)\n", su.Username, su.Role)
			created++
		case err == repository.ErrUsernameTaken:
			fmt.Printf("⚠️  User %q already exists - skipping\n", su.Username)
			skipped++
		default:
			log.Fatalf("❌ Failed to create user %q: %v", su.Username, err)
		}
	}

	fmt.Printf("🌱 Seed complete: %d created, %d skipped\n", created, skipped)
}
