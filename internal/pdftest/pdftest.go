// Package pdftest writes small PDF fixtures for tests.
package pdftest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// Write creates a PDF with one A4 page per entry of pages. Lines of each
// entry are laid out top to bottom in core Helvetica, so text must be Latin-1.
func Write(tb testing.TB, path string, pages []string) string {
	tb.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 14)
	for _, p := range pages {
		pdf.AddPage()
		for _, ln := range strings.Split(p, "\n") {
			pdf.CellFormat(0, 8, ln, "", 1, "L", false, 0, "")
		}
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		tb.Fatalf("write fixture PDF: %v", err)
	}
	return path
}

// TempPDF writes pages to a fresh file under tb.TempDir().
func TempPDF(tb testing.TB, pages ...string) string {
	tb.Helper()
	return Write(tb, filepath.Join(tb.TempDir(), "fixture.pdf"), pages)
}
