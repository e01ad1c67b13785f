package main

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/joho/godotenv"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/cache"
	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/config"
	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/fetch"
	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/handlers"
	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/services"
)

//go:embed all:templates
var templateFS embed.FS

//go:embed all:assets
var assetsFS embed.FS

func main() {
	// 1. Load .env (if present) and the environment-backed configuration.
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize logging.
	defer logger.Init("lotto-america", true, false, os.Stdout).Close()

	// 3. Build the fetcher, cache, and results service.
	fetcher, err := fetch.New(cfg.FetchTimeout())
	if err != nil {
		log.Fatalf("Failed to create fetcher: %v", err)
	}
	resultCache := cache.New(nil)
	resultsService := services.NewResultsService(fetcher, resultCache, cfg)

	// 4. Load HTML templates from the embedded filesystem.
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	// 5. Initialize the HTTP Handler and the Gin router.
	httpHandler := handlers.NewHTTPHandler(resultsService, templates, cfg)
	r := gin.Default()

	// 6. Serve static files from the embedded filesystem.
	assetsSubFS, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		log.Fatalf("Failed to create assets sub-filesystem: %v", err)
	}
	r.StaticFS("/assets", http.FS(assetsSubFS))

	// 7. Register routes and run the server.
	httpHandler.RegisterRoutes(r)
	log.Printf("Server starting on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
