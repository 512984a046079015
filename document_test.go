package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDocumentType(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
		wantErr bool
	}{
		{"PDF", []byte("%PDF-1.4\n%some pdf body"), "application/pdf", false},
		{"PNG", pngMagic, "image/png", false},
		{"JPEG", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}, "image/jpeg", false},
		{"Plain text", []byte("just some text"), "", true},
		{"Empty", nil, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := detectDocumentType(tc.content)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported file type")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRecognizeDocumentImage(t *testing.T) {
	app := newTestApp(t)
	app.OCR = &fakeOCRProvider{text: "Purchase Order: 550123"}

	imagePath := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(imagePath, pngMagic, 0644))

	text, err := app.RecognizeDocument(context.Background(), imagePath)
	require.NoError(t, err)

	// Single images produce bare text, no page markers.
	assert.Equal(t, "Purchase Order: 550123", text)
}

func TestRecognizeDocumentUnsupportedContent(t *testing.T) {
	app := newTestApp(t)

	textPath := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(textPath, []byte("not really a pdf"), 0644))

	_, err := app.RecognizeDocument(context.Background(), textPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestRecognizeDocumentMissingFile(t *testing.T) {
	app := newTestApp(t)

	_, err := app.RecognizeDocument(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"))
	require.Error(t, err)
}
