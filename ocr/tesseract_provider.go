package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// TesseractProvider talks to a tesseract-server instance over HTTP.
type TesseractProvider struct {
	baseURL    string
	languages  string
	httpClient *retryablehttp.Client
}

func newTesseractProvider(config Config) (*TesseractProvider, error) {
	logger := log.WithFields(logrus.Fields{
		"url": config.TesseractURL,
	})
	logger.Info("Creating new tesseract provider")

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = logger

	languages := config.TesseractLanguages
	if languages == "" {
		languages = "eng"
	}

	return &TesseractProvider{
		baseURL:    config.TesseractURL,
		languages:  languages,
		httpClient: client,
	}, nil
}

// RecognizePage sends one page image to the tesseract server and returns
// the recognized text.
func (p *TesseractProvider) RecognizePage(ctx context.Context, imageContent []byte, pageNumber int) (*Result, error) {
	logger := log.WithFields(logrus.Fields{
		"provider": "tesseract",
		"url":      p.baseURL,
		"page":     pageNumber,
	})
	logger.Debug("Starting tesseract recognition")

	options, err := json.Marshal(map[string]interface{}{
		"languages": strings.Split(p.languages, "+"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tesseract options: %w", err)
	}

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	part, err := writer.CreateFormFile("file", "page"+strconv.Itoa(pageNumber)+".jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(imageContent)); err != nil {
		return nil, fmt.Errorf("failed to copy image content to form: %w", err)
	}
	_ = writer.WriteField("options", string(options))

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	requestURL := p.baseURL + "/tesseract"
	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", requestURL, &requestBody)
	if err != nil {
		return nil, fmt.Errorf("error creating tesseract request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("Failed to send request to tesseract server")
		return nil, fmt.Errorf("error sending request to tesseract server: %w", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading tesseract response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(respBodyBytes),
		}).Error("Received non-OK status from tesseract server")
		return nil, fmt.Errorf("tesseract server returned status %d: %s", resp.StatusCode, string(respBodyBytes))
	}

	var tessResp tesseractResponse
	if err := json.Unmarshal(respBodyBytes, &tessResp); err != nil {
		return nil, fmt.Errorf("error parsing tesseract JSON response: %w", err)
	}

	if tessResp.Data.Exit.Code != 0 {
		logger.WithField("stderr", tessResp.Data.Stderr).Error("Tesseract recognition failed")
		return nil, fmt.Errorf("tesseract exited with code %d: %s", tessResp.Data.Exit.Code, tessResp.Data.Stderr)
	}

	result := &Result{
		Text: tessResp.Data.Stdout,
		Metadata: map[string]string{
			"provider":  "tesseract",
			"languages": p.languages,
		},
	}

	logger.WithField("content_length", len(result.Text)).Info("Successfully recognized page")
	return result, nil
}

// tesseractResponse mirrors the tesseract-server /tesseract JSON response.
type tesseractResponse struct {
	Data struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Exit   struct {
			Code int `json:"code"`
		} `json:"exit"`
	} `json:"data"`
}
