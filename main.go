package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"house_scout/config"
	"house_scout/geocode"
	"house_scout/logging"
	"house_scout/parser"
	"house_scout/server"
	"house_scout/storage"
	"house_scout/watcher"
)

var (
	sweepNow = flag.Bool("sweep", false, "Import pending files once and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting house_scout...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store storage.Store
	if cfg.DatabaseURL != "" {
		store, err = storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		log.Println("Using Postgres store")
	} else {
		store, err = storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open SQLite: %v", err)
		}
		log.Printf("SQLite database: %s", cfg.DBPath)
	}
	defer store.Close()

	geocoder := geocode.NewClient(cfg.GeocodeTimeout)
	p := parser.New(geocoder)
	w := watcher.New(cfg.ImportDir, p, store, cfg.Debounce)

	if *sweepNow {
		log.Println("Running one-shot sweep...")
		if err := w.Sweep(ctx); err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		log.Println("Sweep complete!")
		return
	}

	// Periodic re-sweep backstops any fsnotify event the watcher missed.
	c := cron.New()
	if _, err := c.AddFunc(cfg.SweepCron, func() {
		if err := w.Sweep(ctx); err != nil {
			log.Printf("Warning: scheduled sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("Invalid sweep schedule %q: %v", cfg.SweepCron, err)
	}
	c.Start()

	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Watcher failed: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(store, cfg.Analysis).Router(),
	}
	go func() {
		log.Printf("API listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel()
	c.Stop()
	srv.Shutdown(context.Background())
	log.Println("Goodbye!")
}
