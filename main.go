package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"po-scan/extractor"
	"po-scan/ocr"
)

// Global Variables and Constants
var (

	// Logger
	log = logrus.New()

	// Environment Variables
	jwtSecret          = os.Getenv("JWT_SECRET")
	ocrProvider        = os.Getenv("OCR_PROVIDER")
	tesseractURL       = os.Getenv("TESSERACT_URL")
	tesseractLanguages = os.Getenv("TESSERACT_LANGUAGES")
	visionLlmProvider  = os.Getenv("VISION_LLM_PROVIDER")
	visionLlmModel     = os.Getenv("VISION_LLM_MODEL")
	visionLlmPrompt    = os.Getenv("VISION_LLM_PROMPT")
	uploadDir          = envOrDefault("UPLOAD_DIR", "uploads")
	dbDir              = envOrDefault("DB_DIR", "db")
	listenAddr         = envOrDefault("LISTEN_ADDR", ":8080")
	logLevel           = strings.ToLower(os.Getenv("LOG_LEVEL"))
)

// App struct to hold dependencies
type App struct {
	Database   *gorm.DB
	OCR        ocr.Provider
	uploadDir  string
	jwtSecret  []byte
	limitPages int
}

func main() {
	// Validate Environment Variables
	validateEnvVars()

	// Initialize logrus logger
	initLogger()
	extractor.SetLogLevel(log.GetLevel())
	ocr.SetLogLevel(log.GetLevel())

	// Initialize Database
	database := InitializeDB(dbDir)

	// Ensure upload directory exists
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Initialize OCR provider
	provider, err := ocr.NewProvider(ocr.Config{
		Provider:           ocrProvider,
		TesseractURL:       tesseractURL,
		TesseractLanguages: tesseractLanguages,
		VisionLLMProvider:  visionLlmProvider,
		VisionLLMModel:     visionLlmModel,
		VisionLLMPrompt:    visionLlmPrompt,
		RequestsPerMinute:  envFloat("OCR_RATE_LIMIT", 0),
	})
	if err != nil {
		log.Fatalf("Failed to create OCR provider: %v", err)
	}

	// Initialize App with dependencies
	app := &App{
		Database:   database,
		OCR:        provider,
		uploadDir:  uploadDir,
		jwtSecret:  []byte(jwtSecret),
		limitPages: envInt("OCR_LIMIT_PAGES", 0),
	}

	// Create a Gin router with default middleware (logger and recovery)
	router := gin.Default()

	// API routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", app.loginHandler)
		api.POST("/auth/register", app.registerHandler)
		api.GET("/health", app.healthHandler)

		authed := api.Group("", authMiddleware(app.jwtSecret))
		{
			// OCR endpoints
			authed.POST("/ocr/upload", app.uploadDocumentHandler)
			authed.GET("/ocr/status/:id", app.ocrStatusHandler)
			authed.GET("/ocr/extract/:id", app.extractOrderHandler)

			// Purchase order lifecycle
			authed.POST("/po/register", app.registerOrderHandler)
			authed.GET("/po/list", app.listOrdersHandler)
			authed.PATCH("/po/:id/status", app.updateOrderStatusHandler)
			authed.PUT("/po/:id/memo", app.updateOrderMemoHandler)
			authed.POST("/po/:id/shipping", app.addShippingHandler)

			// Recognition job introspection
			authed.GET("/jobs", app.getAllJobsHandler)
			authed.GET("/jobs/:job_id", app.getJobStatusHandler)
		}
	}

	// Start recognition worker pool
	numWorkers := envInt("OCR_WORKERS", 1)
	startWorkerPool(app, numWorkers)

	log.Infoln("Server started on", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func initLogger() {
	switch logLevel {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
		if logLevel != "" {
			log.Fatalf("Invalid log level: '%s'.", logLevel)
		}
	}

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// validateEnvVars ensures all necessary environment variables are set
func validateEnvVars() {
	if jwtSecret == "" {
		log.Fatal("Please set the JWT_SECRET environment variable.")
	}

	if ocrProvider == "" {
		log.Fatal("Please set the OCR_PROVIDER environment variable to 'tesseract' or 'llm'.")
	}

	if ocrProvider != "tesseract" && ocrProvider != "llm" {
		log.Fatal("Please set the OCR_PROVIDER environment variable to 'tesseract' or 'llm'.")
	}

	if ocrProvider == "tesseract" && tesseractURL == "" {
		log.Fatal("Please set the TESSERACT_URL environment variable.")
	}

	if ocrProvider == "llm" {
		if visionLlmProvider != "openai" && visionLlmProvider != "ollama" {
			log.Fatal("Please set the VISION_LLM_PROVIDER environment variable to 'openai' or 'ollama'.")
		}
		if visionLlmModel == "" {
			log.Fatal("Please set the VISION_LLM_MODEL environment variable.")
		}
		if visionLlmProvider == "openai" && os.Getenv("OPENAI_API_KEY") == "" {
			log.Fatal("Please set the OPENAI_API_KEY environment variable for OpenAI provider.")
		}
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid value for %s: %q", key, value)
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatalf("Invalid value for %s: %q", key, value)
	}
	return f
}
