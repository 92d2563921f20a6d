package extractor

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/contextutil"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
)

// PDF downloads a PDF and extracts its text page by page. The title is
// derived from the filename.
func (e *Extractor) PDF(ctx context.Context, pdfURL string) Outcome {
	logger := contextutil.LoggerFromContext(ctx)

	resp, err := e.get(ctx, pdfURL)
	if err != nil {
		logger.WarnContext(ctx, "pdf download failed", "url", pdfURL, "error", err)
		return skip("download failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return skip("status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "ycce-*.pdf")
	if err != nil {
		return skip("temp file: %v", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return skip("download failed: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return skip("temp file: %v", err)
	}

	text, err := extractPDFText(tmpPath)
	if err != nil {
		logger.WarnContext(ctx, "pdf parsing failed", "url", pdfURL, "error", err)
		return skip("parse failed: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		return skip("no extractable text")
	}

	doc, err := ingest.NewDocument(pdfURL, pdfTitle(pdfURL), ingest.KindPDF, text)
	if err != nil {
		return skip("invalid document: %v", err)
	}
	return Outcome{Doc: doc}
}

// extractPDFText reads every page's plain text, prefixed with a page marker.
func extractPDFText(filePath string) (text string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	var pages []string
	for num := 1; num <= reader.NumPage(); num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, fmt.Sprintf("--- Page %d ---\n%s", num, content))
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// pdfTitle derives a readable title from the PDF's filename.
func pdfTitle(pdfURL string) string {
	name := pdfURL
	if parsed, err := url.Parse(pdfURL); err == nil {
		name = path.Base(parsed.Path)
	}
	name = strings.TrimSuffix(name, ".pdf")
	name = strings.TrimSuffix(name, ".PDF")
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
