// Imports MCB test settings from a JSON file into the settings collection.
// Existing settings are replaced.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sihmcb/backend/config"
	"github.com/sihmcb/backend/database"
	"github.com/sihmcb/backend/repository"
)

func main() {
	file := flag.String("file", "mongodb_test_settings.json", "path to the settings JSON file")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", *file, err)
	}

	var docs []bson.M
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Fatalf("❌ Failed to parse %s: %v", *file, err)
	}
	fmt.Printf("Loading %d test settings into MongoDB...\n", len(docs))

	db, err := database.Connect(cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	settings := repository.NewSettingsRepository(db.DB())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	existing, err := settings.Count(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to count settings: %v", err)
	}
	if existing > 0 {
		fmt.Printf("Found %d existing settings. Clearing collection...\n", existing)
	}

	inserted, err := settings.ReplaceAll(ctx, toAny(docs))
	if err != nil {
		log.Fatalf("❌ Failed to import settings: %v", err)
	}
	fmt.Printf("✅ Successfully imported %d test settings!\n", inserted)

	total, err := settings.Count(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to verify import: %v", err)
	}
	fmt.Printf("📊 Total test settings in database: %d\n", total)

	fmt.Println("\n📋 Imported Test Settings Summary:")
	fmt.Println(strings.Repeat("-", 50))
	for _, doc := range docs {
		fmt.Printf("• %v: %v - %v\n", doc["_id"], doc["mcbModel"], doc["testDesignation"])
	}
}

func toAny(docs []bson.M) []any {
	out := make([]any, len(docs))
	for i, d := range docs {
		out[i] = d
	}
	return out
}
