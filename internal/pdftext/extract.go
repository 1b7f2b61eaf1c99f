// Package pdftext turns a receipt PDF into the ordered raw text lines
// the receipt parsers work on. The PDF library is treated as a black
// box returning per-page strings; everything downstream only sees
// []string.
package pdftext

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// ExtractLines opens the PDF at path and returns its plain text split
// into lines, pages in order. The file handle is held only for the
// duration of the call.
func ExtractLines(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var lines []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d text: %w", i, err)
		}
		lines = append(lines, SplitLines(text)...)
	}

	return lines, nil
}

// ExtractLinesReader extracts lines from a PDF byte stream. The library
// needs a seekable file of known size, so the stream is spooled to a
// temp file first.
func ExtractLinesReader(r io.Reader) ([]string, error) {
	tmp, err := os.CreateTemp("", "basketsplit-receipt-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	return ExtractLines(tmpPath)
}

// SplitLines splits one page's extracted text on newlines.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}
