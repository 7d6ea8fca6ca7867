package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/api"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/auth"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/config"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/db"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/poll"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/session"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/store"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/web"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: fridgewatch <init|serve>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: fridgewatch <init|serve>\n", os.Args[1])
		os.Exit(1)
	}
}

func cmdInit(args []string) {
	cfg := config.Load()

	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "path to SQLite database file")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", *dbPath)
		os.Exit(1)
	}

	if err := initDatabase(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database created: %s\n", *dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Sign up through the web interface to start tracking fridges.")
}

func cmdServe(args []string) {
	cfg := config.Load()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "path to SQLite database file")
	addr := fs.String("addr", cfg.Addr, "listen address")
	jwtSecret := fs.String("jwt-secret", cfg.JWTSecret, "JWT signing key (auto-generated if empty)")
	pollInterval := fs.Duration("poll-interval", cfg.PollInterval, "fridge list refresh interval")
	fs.Parse(args)

	// Auto-generate JWT secret if not provided.
	if *jwtSecret == "" {
		secret, err := generateSecret(32)
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		*jwtSecret = secret
		log.Println("JWT secret auto-generated (sessions will be invalidated on restart)")
	}

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		if err := initDatabase(*dbPath); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		fmt.Printf("Database created: %s\n", *dbPath)
	}

	// Open database.
	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Run migrations (idempotent).
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	authService := auth.NewService(database, *jwtSecret)

	// The session store is built once here and threaded into the web layer;
	// browser identity flows through it rather than through ambient state.
	sessions := session.NewStore(authService)
	changes, unsubscribe := sessions.Subscribe()
	defer unsubscribe()
	go func() {
		for change := range changes {
			if change.Identity != nil {
				slog.Info("session started", "user", change.Identity.Email)
			} else {
				slog.Info("session ended")
			}
		}
	}()

	// Background fetcher keeps an in-memory mirror of the fridge list so
	// every page load serves from the same snapshot.
	fetcher := poll.NewFetcher(func(ctx context.Context) ([]model.Fridge, error) {
		return store.ListFridges(ctx, database)
	})
	fetcher.Start(*pollInterval)
	defer fetcher.Stop()

	// Set up routers. The JSON API is a stateless bearer surface and talks
	// to the identity service directly.
	apiRouter := api.NewRouter(database, authService, fetcher)
	webRouter, err := web.NewRouter(database, sessions, fetcher)
	if err != nil {
		log.Fatalf("Failed to set up web router: %v", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	handler := api.LoggingMiddleware(mux)

	server := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}()

	fmt.Printf("Server listening on %s\n", *addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

// initDatabase creates a new database file and runs migrations.
func initDatabase(path string) error {
	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		os.Remove(path)
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// generateSecret creates a random secret of the given length.
func generateSecret(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
