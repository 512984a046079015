// Package ocr wraps the external text-recognition engines behind a single
// provider interface. Recognition is a remote, potentially slow call; the
// extraction engine itself never touches this package and only ever sees the
// recognized text.
package ocr

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Result holds the output of recognizing one page.
type Result struct {
	// Plain recognized text
	Text string

	// Additional provider-specific metadata
	Metadata map[string]string
}

// Provider defines the interface for page-level text recognition.
type Provider interface {
	RecognizePage(ctx context.Context, imageContent []byte, pageNumber int) (*Result, error)
}

// Config holds the OCR provider configuration.
type Config struct {
	// Provider type: "tesseract" or "llm"
	Provider string

	// Tesseract server settings
	TesseractURL       string
	TesseractLanguages string // e.g. "eng+jpn", defaults to "eng"

	// Vision LLM settings
	VisionLLMProvider string
	VisionLLMModel    string
	VisionLLMPrompt   string

	// RequestsPerMinute caps LLM recognition calls; 0 disables the limit.
	RequestsPerMinute float64
}

// NewProvider creates an OCR provider based on configuration.
func NewProvider(config Config) (Provider, error) {
	log.Info("Initializing OCR provider: ", config.Provider)

	switch config.Provider {
	case "tesseract":
		if config.TesseractURL == "" {
			return nil, fmt.Errorf("missing required tesseract server configuration (TESSERACT_URL)")
		}
		log.WithField("url", config.TesseractURL).Info("Using tesseract server provider")
		return newTesseractProvider(config)

	case "llm":
		if config.VisionLLMProvider == "" || config.VisionLLMModel == "" {
			return nil, fmt.Errorf("missing required vision LLM configuration")
		}
		log.WithFields(logrus.Fields{
			"provider": config.VisionLLMProvider,
			"model":    config.VisionLLMModel,
		}).Info("Using vision LLM provider")
		return newLLMProvider(config)

	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", config.Provider)
	}
}

// SetLogLevel sets the logging level for the ocr package.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}
