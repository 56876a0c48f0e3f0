package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artfolio/pkg/logger"

	"go.uber.org/zap"
)

const LIMIT = 5

func main() {
	server := flag.String("server", "http://localhost:3000/api/v1", "Server base URL")
	manifestPath := flag.String("manifest", "works.yaml", "YAML manifest listing the works to import")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "Admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "Admin password")
	limit := flag.Int("limit", LIMIT, "Concurrent uploads")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	manifest, err := LoadManifest(*manifestPath)
	if err != nil {
		log.Fatal("could not load manifest", zap.String("path", *manifestPath), zap.Error(err))
	}
	if *limit <= 0 {
		log.Fatal("limit must be > 0")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := NewClient(*server)
	if err := client.Login(ctx, *email, *password); err != nil {
		log.Fatal("login failed", zap.Error(err))
	}

	fmt.Printf("Server: %s\n", *server)
	fmt.Printf("Portfolio: %s | Works: %d\n", manifest.Portfolio, len(manifest.Works))
	fmt.Println("Press Ctrl+C to cancel...")

	done := make(chan struct{})
	var progress *ImportProgress
	go func() {
		defer close(done)
		progress = Import(ctx, client, manifest, *limit, func(w ManifestWork, err error) {
			log.Warn("work not imported", zap.String("image", w.Image), zap.Error(err))
		})
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			imported, failed, total := progress.GetProgress()
			fmt.Printf("\nImport finished: %d/%d imported, %d failed in %s\n",
				imported, total, failed, time.Since(progress.startTime).Round(time.Millisecond))
			if ctx.Err() != nil {
				fmt.Println("Import cancelled")
			}
			if failed > 0 {
				os.Exit(1)
			}
			return
		case <-ticker.C:
			fmt.Print(".")
		}
	}
}
