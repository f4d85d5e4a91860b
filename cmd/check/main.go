// Command check runs a one-shot reward check from the terminal, printing
// one line per provider in batch order.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/adalens/adalens/internal/aggregator"
	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/provider"
	"github.com/adalens/adalens/internal/validate"
)

func main() {
	address := flag.String("address", "", "Payment (addr1...) or stake (stake1...) address (required)")
	timeout := flag.Duration("timeout", config.DefaultCheckTimeout, "Per-provider timeout")
	include := flag.String("include", "", "Comma-separated provider ids to include")
	exclude := flag.String("exclude", "", "Comma-separated provider ids to exclude")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *address == "" {
		fmt.Fprintln(os.Stderr, "-address is required")
		flag.Usage()
		os.Exit(2)
	}
	if !validate.IsRewardAddress(*address) {
		fmt.Fprintln(os.Stderr, "address is not a recognized payment or stake address")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	registry := provider.Setup(cfg)

	start := time.Now()
	results := registry.CheckAll(context.Background(), []string{*address}, provider.CheckOptions{
		Timeout: *timeout,
		Include: splitIDs(*include),
		Exclude: splitIDs(*exclude),
	})

	failed := 0
	for _, res := range aggregator.SortByPriority(results) {
		if !res.Success {
			failed++
			fmt.Printf("%-12s FAILED   %s\n", res.ProviderID, res.Error)
			continue
		}
		if len(res.Data.Tokens) == 0 {
			fmt.Printf("%-12s ok       no unclaimed rewards\n", res.ProviderID)
			continue
		}
		parts := make([]string, 0, len(res.Data.Tokens))
		for _, t := range res.Data.Tokens {
			parts = append(parts, fmt.Sprintf("%g %s", t.Amount, t.Symbol))
		}
		fmt.Printf("%-12s ok       %s\n", res.ProviderID, strings.Join(parts, ", "))
	}

	fmt.Printf("\n%d providers checked in %s (%d failed)\n",
		len(results), time.Since(start).Round(time.Millisecond), failed)

	if failed == len(results) && len(results) > 0 {
		os.Exit(1)
	}
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
