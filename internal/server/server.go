package server

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/voxscribe/internal/auth"
	"github.com/codebuildervaibhav/voxscribe/internal/handlers"
	"github.com/codebuildervaibhav/voxscribe/internal/metrics"
)

// Version is reported by /health
const Version = "1.0.0"

// Deps are the components the HTTP app is built from. Store, Verifier,
// Drive and Metrics are optional.
type Deps struct {
	MaxFileSizeMB int
	AllowOrigins  string
	SpoolDir      string

	Transcriber handlers.Transcriber
	Exporter    handlers.Exporter
	Store       handlers.RecordStore
	Drive       handlers.DriveUploader
	Verifier    *auth.Verifier
	Metrics     *metrics.Metrics
	Logs        *LogBuffer
}

// NewApp creates the Fiber app with every route mounted
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		// Multipart overhead on top of the audio itself
		BodyLimit:    (deps.MaxFileSizeMB + 1) * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}

	transcribeHandler := handlers.NewTranscribeHandler(deps.Transcriber, deps.MaxFileSizeMB)
	exportHandler := handlers.NewExportHandler(deps.Exporter)
	streamHandler := handlers.NewStreamHandler(deps.Transcriber, deps.SpoolDir, deps.MaxFileSizeMB)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": Version,
		})
	})

	app.Get("/logs", func(c *fiber.Ctx) error {
		var logs []string
		if deps.Logs != nil {
			logs = deps.Logs.GetLogs()
		}
		return c.JSON(fiber.Map{"logs": logs})
	})

	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}

	app.Post("/api/transcribe", transcribeHandler.Handle)
	app.Post("/api/export/pdf", exportHandler.Handle)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/transcribe", websocket.New(streamHandler.Handle))

	if deps.Store != nil && deps.Verifier != nil {
		filesHandler := handlers.NewFilesHandler(deps.Store, deps.Exporter, deps.Drive)
		if deps.Metrics != nil {
			filesHandler.WithObserver(deps.Metrics)
		}

		files := app.Group("/api/files", deps.Verifier.Middleware())
		files.Post("/", filesHandler.Create)
		files.Get("/", filesHandler.List)
		files.Delete("/", filesHandler.DeleteAll)
		files.Get("/:id", filesHandler.Get)
		files.Delete("/:id", filesHandler.Delete)
		files.Get("/:id/export", filesHandler.Export)
		files.Post("/:id/drive", filesHandler.Drive)
	} else {
		log.Println("WARNING: auth secret or record store missing - /api/files disabled")
	}

	return app
}

// errorHandler renders framework errors in the same {error, code} shape as handlers
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": msg,
		"code":  errorCode(code),
	})
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "ERR_NOT_FOUND"
	case fiber.StatusUnauthorized:
		return "ERR_UNAUTHORIZED"
	case fiber.StatusRequestEntityTooLarge:
		return "ERR_FILE_TOO_LARGE"
	case fiber.StatusUpgradeRequired:
		return "ERR_UPGRADE_REQUIRED"
	case fiber.StatusMethodNotAllowed:
		return "ERR_METHOD_NOT_ALLOWED"
	default:
		if status < 500 {
			return "ERR_BAD_REQUEST"
		}
		return "ERR_INTERNAL"
	}
}
