package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/okozlov/finflow/internal/analytics"
	"github.com/okozlov/finflow/internal/balance"
	"github.com/okozlov/finflow/internal/domain"
	"github.com/okozlov/finflow/internal/entitlement"
	"github.com/okozlov/finflow/internal/export"
	"github.com/okozlov/finflow/internal/infra/postgres"
	"github.com/okozlov/finflow/internal/logger"
	"github.com/okozlov/finflow/internal/prefs"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		runAdd(log)
	case "list":
		runList(log)
	case "delete":
		runDelete(log)
	case "balance":
		runBalance(log)
	case "insights":
		runInsights(log)
	case "export":
		runExport(log)
	case "prefs":
		runPrefs(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("FinFlow CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  add       Record an income or expense")
	fmt.Println("  list      List transactions, newest first")
	fmt.Println("  delete    Delete a transaction by ID")
	fmt.Println("  balance   Show the locally cached running balance")
	fmt.Println("  insights  Show spending aggregates for a time range")
	fmt.Println("  export    Write all transactions to a CSV file (premium)")
	fmt.Println("  prefs     Show or set local preference flags")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
	fmt.Println("\nDATABASE_URL and FINFLOW_USER must be set for commands that hit the store.")
}

func openStore(ctx context.Context, log zerolog.Logger) (*postgres.Store, string) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}
	userID := os.Getenv("FINFLOW_USER")
	if userID == "" {
		log.Fatal().Msg("FINFLOW_USER is required")
	}

	store, err := postgres.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	return store, userID
}

func openRunningTotal(log zerolog.Logger) (*balance.RunningTotal, *prefs.Store) {
	path := os.Getenv("PREFS_PATH")
	if path == "" {
		path = "finflow-prefs.db"
	}
	cache, err := prefs.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open preference store")
	}
	return balance.NewRunningTotal(cache, log), cache
}

func runAdd(log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "transaction amount (positive)")
	txType := fs.String("type", "expense", "income or expense")
	category := fs.String("category", "", "category name")
	date := fs.String("date", time.Now().Format("2006-01-02"), "date as YYYY-MM-DD")
	description := fs.String("desc", "", "optional description")
	fs.Parse(os.Args[2:])

	day, err := time.ParseInLocation("2006-01-02", *date, time.Local)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --date, expected YYYY-MM-DD")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, userID := openStore(ctx, log)
	defer store.Close()

	tx, err := store.InsertTransaction(ctx, userID, domain.TransactionFields{
		Amount:      *amount,
		Type:        domain.TransactionType(*txType),
		Category:    *category,
		Date:        day,
		Description: *description,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to add transaction")
	}

	// Keep the locally cached balance in step with the store.
	total, cache := openRunningTotal(log)
	defer cache.Close()
	if _, err := total.ApplyInsert(ctx, tx.Amount, tx.Type == domain.TypeIncome); err != nil {
		log.Warn().Err(err).Msg("Balance cache not updated")
	}

	fmt.Printf("Added %s %s %.2f (%s) on %s\n", tx.ID, tx.Type, tx.Amount, tx.Category, tx.Date.Format("2006-01-02"))
}

func runList(log zerolog.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "maximum rows to print (0 for all)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, userID := openStore(ctx, log)
	defer store.Close()

	txs, err := store.ListTransactions(ctx, userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list transactions")
	}

	if *limit > 0 && len(txs) > *limit {
		txs = txs[:*limit]
	}

	for _, tx := range txs {
		sign := "-"
		if tx.Type == domain.TypeIncome {
			sign = "+"
		}
		fmt.Printf("%s  %s  %s%8.2f  %-20s %s\n",
			tx.ID, tx.Date.Format("2006-01-02"), sign, tx.Amount, tx.Category, tx.Description)
	}
	fmt.Printf("\n%d transaction(s)\n", len(txs))
}

func runDelete(log zerolog.Logger) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "transaction ID")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, userID := openStore(ctx, log)
	defer store.Close()

	// Fetch first so the balance cache can be reversed with the right amount.
	txs, err := store.ListTransactions(ctx, userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transactions")
	}
	var target *domain.Transaction
	for i := range txs {
		if txs[i].ID == *id {
			target = &txs[i]
			break
		}
	}

	removed, err := store.DeleteTransaction(ctx, userID, *id)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to delete transaction")
	}
	if !removed {
		fmt.Println("Nothing to delete.")
		return
	}

	if target != nil {
		total, cache := openRunningTotal(log)
		defer cache.Close()
		if _, err := total.ApplyDelete(ctx, target.Amount, target.Type == domain.TypeIncome); err != nil {
			log.Warn().Err(err).Msg("Balance cache not updated")
		}
	}

	fmt.Printf("Deleted %s\n", *id)
}

func runBalance(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, cache := openRunningTotal(log)
	defer cache.Close()

	current, err := total.Current(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read balance")
	}
	fmt.Printf("Balance: %.2f\n", current)
}

func runInsights(log zerolog.Logger) {
	fs := flag.NewFlagSet("insights", flag.ExitOnError)
	rng := fs.String("range", string(analytics.RangeThisMonth), "thisMonth, lastMonth, last3Months or allTime")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, userID := openStore(ctx, log)
	defer store.Close()

	txs, err := store.ListTransactions(ctx, userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transactions")
	}

	now := time.Now()
	start, end := analytics.ResolveRange(analytics.Range(*rng), now)
	spending := analytics.TotalSpending(txs, start, end)
	income := analytics.TotalIncome(txs, start, end)

	fmt.Printf("Range:          %s (%s to %s)\n", *rng, start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("Balance:        %.2f\n", balance.Fold(txs))
	fmt.Printf("Income:         %.2f\n", income)
	fmt.Printf("Spending:       %.2f\n", spending)
	fmt.Printf("Spent today:    %.2f\n", analytics.TodaySpending(txs, now))
	fmt.Printf("Savings rate:   %.1f%%\n", analytics.SavingsRate(income, spending))

	fmt.Println("\nBy category:")
	for _, c := range analytics.CategoryBreakdown(txs, start, end) {
		fmt.Printf("  %-20s %8.2f  %3d%%\n", c.Category, c.Amount, c.Percentage)
	}
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "transactions.csv", "output file path")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, userID := openStore(ctx, log)
	defer store.Close()

	path := os.Getenv("PREFS_PATH")
	if path == "" {
		path = "finflow-prefs.db"
	}
	cache, err := prefs.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open preference store")
	}
	defer cache.Close()

	entitlements := entitlement.NewManager(entitlement.NewLocalBiller(), cache, log)
	if !entitlements.HasCapability(ctx, userID, "export_csv") {
		log.Fatal().Msg("CSV export is a premium feature")
	}

	txs, err := store.ListTransactions(ctx, userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transactions")
	}

	data, err := export.BuildCSV(txs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build CSV")
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write CSV")
	}

	fmt.Printf("Wrote %d transaction(s) to %s\n", len(txs), *out)
}

func runPrefs(log zerolog.Logger) {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	set := fs.String("set", "", "preference key to change")
	value := fs.Bool("value", false, "value for --set")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path := os.Getenv("PREFS_PATH")
	if path == "" {
		path = "finflow-prefs.db"
	}
	cache, err := prefs.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open preference store")
	}
	defer cache.Close()

	if *set != "" {
		key, ok := prefs.Lookup(*set)
		if !ok {
			log.Fatal().Str("key", *set).Msg("Unknown preference key")
		}
		if key.Scope != prefs.ScopeLocal {
			log.Fatal().Str("key", key.Name).Msg("Preference is remote; change it via the settings API")
		}
		if err := cache.SetBool(ctx, key.Name, *value); err != nil {
			log.Fatal().Err(err).Msg("Failed to set preference")
		}
		fmt.Printf("%s = %v\n", key.Name, *value)
		return
	}

	for _, key := range prefs.Registry {
		if key.Scope != prefs.ScopeLocal {
			fmt.Printf("  %-24s %-6s (remote, default %v)\n", key.Name, "-", key.Default)
			continue
		}
		fmt.Printf("  %-24s %-6v (default %v)\n", key.Name, cache.GetBool(ctx, key.Name, key.Default), key.Default)
	}
}
