package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/locvowork/shift_scheduler/internal/bootstrap"
	"github.com/locvowork/shift_scheduler/internal/database"
	"github.com/locvowork/shift_scheduler/internal/logger"
)

func main() {
	// Define flags
	action := flag.String("action", "seed", "Action to perform: seed, clear")
	preset := flag.String("preset", "medium", "Data preset: small, medium, large")
	employees := flag.Int("employees", 0, "Number of employees (overrides preset)")
	perShift := flag.Int("per-shift", 0, "Most employees per filled cell (overrides preset)")
	fill := flag.Float64("fill", 0, "Share of cells to fill, 0-1 (overrides preset)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt for clear")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("🚀 Schedule Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	// Initialize app
	fmt.Println("📡 Initializing application...")
	app := bootstrap.NewApp()
	if err := app.InitializeCore(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application", err)
		log.Fatal(err)
	}
	defer app.Close()

	// Create seeder
	seeder := database.NewDataSeeder(app.Store, *seed)

	// Execute action
	switch *action {
	case "seed":
		performSeed(ctx, seeder, *preset, *employees, *perShift, *fill)

	case "clear":
		performClear(ctx, seeder, *yes)

	default:
		fmt.Printf("❌ Unknown action: %s\n", *action)
		flag.PrintDefaults()
		return
	}

	fmt.Println("\n✅ Done!")
}

func performSeed(ctx context.Context, seeder *database.DataSeeder, preset string, employees, perShift int, fill float64) {
	numEmployees, numPerShift, fillRate := database.GetPresetConfig(database.SeedPreset(preset))
	fmt.Printf("📊 Using preset: %s\n", preset)

	if employees > 0 {
		numEmployees = employees
	}
	if perShift > 0 {
		numPerShift = perShift
	}
	if fill > 0 {
		fillRate = fill
	}

	stats, err := seeder.SeedData(ctx, numEmployees, numPerShift, fillRate)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	fmt.Printf("📊 Stats: %d employees, %d time slots, %d entries\n", stats.Employees, stats.Slots, stats.Entries)
}

func performClear(ctx context.Context, seeder *database.DataSeeder, yes bool) {
	if !yes {
		fmt.Println("⚠️  This will delete every schedule entry!")
		fmt.Print("Continue? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" {
			fmt.Println("Cancelled.")
			return
		}
	}

	if err := seeder.ClearData(ctx); err != nil {
		log.Fatalf("❌ Clear failed: %v", err)
	}
}
