package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"recruit-backend/internal/shared/storage/object"
)

// ExtractText pulls plain text out of a stored resume PDF and persists a
// derived .extracted.txt artifact next to the original object. The returned
// string is the full extracted text. Documents that cannot be opened as a PDF
// fail the whole extraction; individual pages that cannot be decoded are
// skipped so a partially damaged document still yields its readable pages.
func ExtractText(ctx context.Context, store object.ObjectStore, storageKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", storageKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: read: %w", storageKey, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", storageKey, err)
	}

	extractedKey := ExtractedKey(storageKey)
	if _, err := store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract text key=%s: save artifact: %w", storageKey, err)
	}

	return text, nil
}

// ExtractedKey returns the storage key of the derived text artifact for a
// resume object.
func ExtractedKey(storageKey string) string {
	return storageKey + ".extracted.txt"
}

// ExtractTextFromBytes extracts text from an in-memory PDF payload,
// page by page.
func ExtractTextFromBytes(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return extractPDF(data)
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		text, err := extractPage(pdfReader, i)
		if err != nil {
			continue
		}
		if text == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}
	return strings.TrimSpace(buf.String()), nil
}

// extractPage isolates a single page so a malformed content stream, which the
// pdf package may surface as a panic, cannot take down the rest of the
// document.
func extractPage(r *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", num, rec)
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: missing", num)
	}
	return page.GetPlainText(nil)
}
