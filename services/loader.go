package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"clarity-backend/models"
)

// DocumentLoader extracts raw text from uploaded files. Supported
// formats are .txt and .pdf; anything else is rejected before chunking.
type DocumentLoader struct{}

func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{}
}

// Load reads the file at path and returns its extracted text.
func (dl *DocumentLoader) Load(path string) (string, error) {
	var text string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		text, err = loadPlainText(path)
	case ".pdf":
		text, err = loadPDFText(path)
	default:
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s", models.ErrEmptyDocument, filepath.Base(path))
	}
	return text, nil
}

func loadPlainText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(content), nil
}

func loadPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	totalPages := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages rather than failing the whole file
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// NormalizeSourceID turns an uploaded filename into a stable document
// identifier: base name, extension stripped, lower-cased.
func NormalizeSourceID(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(strings.TrimSpace(base))
}
