// Database status checker: verifies connectivity and prints a summary of
// the users and settings collections.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sihmcb/backend/config"
	"github.com/sihmcb/backend/database"
	"github.com/sihmcb/backend/repository"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	fmt.Println("🔍 SIH MCB Testing System - Database Status Check")
	fmt.Println(strings.Repeat("=", 60))

	db, err := database.Connect(cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("❌ MongoDB connection: FAILED (%v)", err)
	}
	defer db.Close()

	fmt.Println("✅ MongoDB connection: SUCCESS")
	fmt.Printf("🔗 Connection URI: %s\n", cfg.MongoURI)
	fmt.Printf("📊 Database: %s\n", cfg.DatabaseName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collections, err := db.DB().ListCollectionNames(ctx, bson.M{})
	if err != nil {
		log.Fatalf("❌ Failed to list collections: %v", err)
	}
	fmt.Printf("📁 Collections: %v\n", collections)

	users := repository.NewUserRepository(db.DB())
	userCount, err := users.Count(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to count users: %v", err)
	}
	fmt.Printf("👥 Users in database: %d\n", userCount)

	if userCount > 0 {
		sample, err := users.List(ctx, 5)
		if err != nil {
			log.Fatalf("❌ Failed to load sample users: %v", err)
		}
		fmt.Println("\n🔍 Sample users:")
		for _, u := range sample {
			fmt.Printf("  • %s (%s) - %s - Active: %v\n", u.Username, u.Role, u.Email, u.IsActive)
		}
	} else {
		fmt.Println("⚠️  No users found; run cmd/seed to create the initial accounts")
	}

	settings := repository.NewSettingsRepository(db.DB())
	settingCount, err := settings.Count(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to count settings: %v", err)
	}
	fmt.Printf("\n⚙️  Test settings in database: %d\n", settingCount)

	if settingCount > 0 {
		sample, err := settings.List(ctx, 5)
		if err != nil {
			log.Fatalf("❌ Failed to load sample settings: %v", err)
		}
		fmt.Println("\n🔍 Sample test settings:")
		for _, s := range sample {
			fmt.Printf("  • %s: %s - %s\n", s.ID, s.MCBModel, s.TestDesignation)
		}
	} else {
		fmt.Println("⚠️  No test settings found; run cmd/importsettings to load them")
	}
}
