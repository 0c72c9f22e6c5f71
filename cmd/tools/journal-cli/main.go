package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/annel0/fps-sim/internal/auth"
	"github.com/annel0/fps-sim/internal/storage"
)

const timeFormat = "15:04:05.000"

func main() {
	var (
		command    = flag.String("cmd", "tail", "Command: tail, stats, token")
		backend    = flag.String("backend", "badger", "Journal backend: badger, redis")
		path       = flag.String("path", "./data", "Badger data directory")
		redisAddr  = flag.String("redis", "localhost:6379", "Redis address")
		key        = flag.String("key", "fps:journal", "Redis list key")
		eventTypes = flag.String("types", "", "Event types filter (comma-separated)")
		limit      = flag.Int("limit", 50, "Maximum number of entries")
		follow     = flag.Bool("follow", false, "Poll for new entries (like tail -f)")
		secret     = flag.String("secret", os.Getenv("FPS_ADMIN_SECRET"), "Base64 admin secret for -cmd token")
		operator   = flag.String("operator", "console", "Operator name for -cmd token")
		admin      = flag.Bool("admin", true, "Issue an admin token")
	)
	flag.Parse()

	if *command == "token" {
		if *secret == "" {
			log.Fatalf("❌ -secret or FPS_ADMIN_SECRET is required")
		}
		issuer, err := auth.NewIssuer(*secret, 24*time.Hour)
		if err != nil {
			log.Fatalf("❌ Invalid secret: %v", err)
		}
		token, err := issuer.Issue(*operator, *admin)
		if err != nil {
			log.Fatalf("❌ Token failed: %v", err)
		}
		fmt.Println(token)
		return
	}

	j, err := storage.Open(storage.Options{
		Backend:   storage.Backend(*backend),
		Path:      *path,
		RedisAddr: *redisAddr,
		Key:       *key,
	})
	if err != nil {
		log.Fatalf("❌ Failed to open journal: %v", err)
	}
	defer j.Close()

	types := parseStringList(*eventTypes)
	switch *command {
	case "tail":
		if err := tailEntries(j, types, *limit, *follow); err != nil {
			log.Fatalf("❌ Tail failed: %v", err)
		}
	case "stats":
		if err := showStats(j, *limit); err != nil {
			log.Fatalf("❌ Stats failed: %v", err)
		}
	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: tail, stats, token")
		os.Exit(1)
	}
}

// tailEntries выводит последние записи и, с -follow, новые по мере появления
func tailEntries(j storage.Journal, types []string, limit int, follow bool) error {
	ctx := context.Background()
	entries, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}

	var last uint64
	for _, e := range entries {
		printEntry(e, types)
		last = e.Seq
	}
	if !follow {
		fmt.Printf("\n📊 Total entries: %d\n", len(entries))
		return nil
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		fresh, err := j.Recent(ctx, limit)
		if err != nil {
			return err
		}
		for _, e := range fresh {
			if e.Seq > last {
				printEntry(e, types)
				last = e.Seq
			}
		}
	}
	return nil
}

// showStats считает записи по типу среди последних limit
func showStats(j storage.Journal, limit int) error {
	ctx := context.Background()
	total, err := j.Count(ctx)
	if err != nil {
		return err
	}
	entries, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}

	byType := make(map[string]int)
	for _, e := range entries {
		byType[e.Type]++
	}
	names := make([]string, 0, len(byType))
	for name := range byType {
		names = append(names, name)
	}
	sort.Slice(names, func(a, b int) bool { return byType[names[a]] > byType[names[b]] })

	fmt.Printf("📊 Journal: %d entries, last %d analysed\n", total, len(entries))
	for _, name := range names {
		fmt.Printf("  %-18s %6d\n", name, byType[name])
	}
	return nil
}

func printEntry(e storage.Entry, types []string) {
	if len(types) > 0 && !slices.Contains(types, e.Type) {
		return
	}
	line := fmt.Sprintf("#%-6d %s tick=%-6d %-16s", e.Seq, e.Time.Local().Format(timeFormat), e.Tick, e.Type)
	if e.Actor != 0 {
		line += fmt.Sprintf(" actor=%d", e.Actor)
	}
	if e.Name != "" {
		line += " " + e.Name
	}
	if e.Value != 0 {
		line += fmt.Sprintf(" value=%d", e.Value)
	}
	if e.Detail != "" {
		line += " (" + e.Detail + ")"
	}
	fmt.Println(line)
}

func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
