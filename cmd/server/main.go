package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notevault/internal/config"
	"notevault/internal/handler"
	"notevault/internal/middleware"
	"notevault/internal/repository"
	"notevault/internal/service"
	"notevault/internal/websocket"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	noteRepo, versionRepo, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	hub := websocket.NewHub(
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
	)
	go hub.Run()

	noteService := service.NewNoteService(noteRepo, versionRepo, hub)

	noteHandler := handler.NewNoteHandler(noteService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize)
	uiHandler := handler.NewUIHandler()

	r := handler.NewRouter(noteHandler, wsHandler, uiHandler)

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting NoteVault server on %s (env: %s, storage: %s)", addr, cfg.Server.Env, cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

func openStorage(cfg *config.Config) (repository.NoteRepository, repository.NoteVersionRepository, error) {
	switch cfg.Storage.Backend {
	case "memory":
		store := repository.NewMemoryStore()
		return store, store, nil

	case "file":
		store := repository.NewFileStore(cfg.Storage.FilePath)
		return store, store, nil

	case "couchdb":
		couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
			cfg.Storage.Couch.User,
			cfg.Storage.Couch.Password,
			cfg.Storage.Couch.Host,
			cfg.Storage.Couch.Port,
		)

		client, err := kivik.New("couch", couchURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
		}

		exists, err := client.DBExists(context.Background(), cfg.Storage.Couch.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check database existence: %w", err)
		}
		if !exists {
			if err := client.CreateDB(context.Background(), cfg.Storage.Couch.Name); err != nil {
				return nil, nil, fmt.Errorf("failed to create database: %w", err)
			}
			log.Printf("Created database: %s", cfg.Storage.Couch.Name)
		}

		store := repository.NewCouchStore(client, cfg.Storage.Couch.Name)
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
