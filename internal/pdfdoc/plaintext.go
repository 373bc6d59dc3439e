package pdfdoc

import (
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// plainTextPages reads page text with the pure-Go reader. Pages that fail
// to decode come back empty so page numbering stays aligned with fitz.
func plainTextPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	n := reader.NumPage()
	pages := make([]string, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}
