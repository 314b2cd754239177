package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/codebuildervaibhav/voxscribe/internal/auth"
	"github.com/codebuildervaibhav/voxscribe/internal/cleanup"
	"github.com/codebuildervaibhav/voxscribe/internal/config"
	"github.com/codebuildervaibhav/voxscribe/internal/export"
	"github.com/codebuildervaibhav/voxscribe/internal/handlers"
	"github.com/codebuildervaibhav/voxscribe/internal/metrics"
	"github.com/codebuildervaibhav/voxscribe/internal/server"
	"github.com/codebuildervaibhav/voxscribe/internal/storage"
	"github.com/codebuildervaibhav/voxscribe/internal/transcription"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// Custom logger setup
	logBuffer := server.NewLogBuffer()
	log.SetOutput(io.MultiWriter(os.Stdout, logBuffer))

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure directories exist
	if err := cleanup.EnsureDir(cfg.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Database), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	log.Println("Initializing components...")

	m := metrics.NewMetrics()

	// Gemini transcriber
	transcriber, err := transcription.NewGeminiTranscriber(transcription.Config{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		APIVersion: cfg.Gemini.APIVersion,
		Model:      cfg.Gemini.Model,
		Timeout:    cfg.Gemini.Timeout(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize transcriber: %v", err)
	}
	transcriber.WithObserver(m)

	// PDF exporter
	font, err := export.ResolveFont(cfg.Export.FontPath, cfg.Export.FontFamily)
	if err != nil {
		log.Printf("WARNING: %v - using built-in font", err)
		font = export.DefaultFont()
	}
	renderer, err := export.NewRenderer(cfg.Export.Renderer, font, cfg.Export.ChromePath, cfg.Export.ChromeTimeout())
	if err != nil {
		log.Fatalf("Failed to initialize PDF renderer: %v", err)
	}
	exporter := export.NewExporter(renderer).WithObserver(m)
	log.Printf("PDF exports use %s renderer with font %s", cfg.Export.Renderer, font.Family)

	// Database
	store, err := storage.NewRecordStore(cfg.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Access tokens
	var verifier *auth.Verifier
	if cfg.Auth.JWTSecret != "" {
		verifier, err = auth.NewVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			log.Fatalf("Failed to initialize auth: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Google Drive client (optional - needs credentials and a token from voxctl drive-login)
	var drive handlers.DriveUploader
	if _, err := os.Stat(cfg.GoogleDrive.CredentialsFile); err == nil {
		client, err := storage.NewDriveClient(ctx,
			cfg.GoogleDrive.CredentialsFile,
			cfg.GoogleDrive.TokenFile,
			cfg.GoogleDrive.FolderName,
		)
		if err != nil {
			log.Printf("WARNING: Google Drive not available: %v", err)
		} else {
			drive = client
			log.Println("Google Drive integration enabled")
		}
	} else {
		log.Println("Google Drive credentials not found - Drive upload disabled")
	}

	app := server.NewApp(server.Deps{
		MaxFileSizeMB: cfg.Server.MaxFileSizeMB,
		AllowOrigins:  cfg.Server.AllowOrigins,
		SpoolDir:      cfg.Storage.TempDir,
		Transcriber:   transcriber,
		Exporter:      exporter,
		Store:         store,
		Drive:         drive,
		Verifier:      verifier,
		Metrics:       m,
		Logs:          logBuffer,
	})

	scheduler := cleanup.NewScheduler(cfg.Storage.TempDir, cfg.Cleanup.Interval(), cfg.Cleanup.MaxAge())

	addr := cfg.Server.Addr()
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /api/transcribe        - Transcribe an audio file")
	log.Println("   POST /api/export/pdf        - Export transcript text")
	log.Println("   GET  /ws/transcribe         - WebSocket live recording")
	log.Println("   *    /api/files             - Saved transcripts (auth)")
	log.Println("   GET  /logs                  - View server logs")
	log.Println("   GET  /metrics               - Prometheus metrics")
	log.Println("   GET  /health                - Health check")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.Listen(addr)
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down gracefully...")
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
