package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"lab-reception/internal/config"
	"lab-reception/internal/db"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("   Reset Action Log for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL ACTION LOG ENTRIES!")
	fmt.Println()

	if !*yes {
		fmt.Print("Type 'yes' to continue: ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE action_logs RESTART IDENTITY"); err != nil {
		log.Fatalf("Failed to truncate action_logs: %v\n", err)
	}
	fmt.Println("  ✓ Cleared action_logs and reset ID sequence")

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Action log reset successful!")
}
