package main

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"
)

var allowedMimeTypes = []string{"application/pdf", "image/png", "image/jpeg"}

// detectDocumentType sniffs the content and returns its MIME type, or an
// error when the type is not one of the accepted upload formats.
func detectDocumentType(content []byte) (string, error) {
	mtype := mimetype.Detect(content)
	for _, allowed := range allowedMimeTypes {
		if mtype.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("unsupported file type %s, expected PDF, PNG or JPEG", mtype.String())
}

// pdfPageCount validates the PDF structure and returns its page count.
func pdfPageCount(content []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(bytes.NewReader(content), conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := pdfCtx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to determine PDF page count: %w", err)
	}
	return pdfCtx.PageCount, nil
}

// renderPDFPages renders each page of the PDF at filePath to a JPEG image.
// If limitPages > 0, only the first N pages are rendered.
func renderPDFPages(filePath string, limitPages int) ([][]byte, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	defer doc.Close()

	totalPages := doc.NumPage()
	if limitPages > 0 && limitPages < totalPages {
		totalPages = limitPages
	}

	pages := make([][]byte, totalPages)

	var mu sync.Mutex
	var g errgroup.Group

	for n := 0; n < totalPages; n++ {
		n := n
		g.Go(func() error {
			mu.Lock()
			// libmupdf is not thread-safe
			img, err := doc.Image(n)
			mu.Unlock()
			if err != nil {
				return fmt.Errorf("failed to render page %d: %w", n+1, err)
			}

			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpeg.DefaultQuality}); err != nil {
				return fmt.Errorf("failed to encode page %d: %w", n+1, err)
			}
			pages[n] = buf.Bytes()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// RecognizeDocument runs OCR over the stored document and returns the
// recognized text. Multi-page PDFs are concatenated with a
// "--- Page N ---" marker before each page, pages numbered from 1;
// single images produce bare text.
func (app *App) RecognizeDocument(ctx context.Context, filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read document %s: %w", filePath, err)
	}

	docType, err := detectDocumentType(content)
	if err != nil {
		return "", err
	}

	if docType != "application/pdf" {
		result, err := app.OCR.RecognizePage(ctx, content, 1)
		if err != nil {
			return "", fmt.Errorf("image recognition failed: %w", err)
		}
		return result.Text, nil
	}

	pageCount, err := pdfPageCount(content)
	if err != nil {
		return "", err
	}
	log.WithField("pages", pageCount).Debug("Validated PDF")

	pages, err := renderPDFPages(filePath, app.limitPages)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for n, page := range pages {
		result, err := app.OCR.RecognizePage(ctx, page, n+1)
		if err != nil {
			return "", fmt.Errorf("recognition failed on page %d: %w", n+1, err)
		}
		fmt.Fprintf(&sb, "\n--- Page %d ---\n%s", n+1, result.Text)
	}

	return sb.String(), nil
}
