package convert

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	rpdf "rsc.io/pdf"

	"github.com/thywilljoshua/pdf-to-slides/internal/pdfdoc"
)

// ProbePages returns the page count, trying the pure-Go reader first and
// falling back to fitz for files it cannot parse.
func ProbePages(path string) (int, error) {
	if n := rscPageCount(path); n > 0 {
		return n, nil
	}
	n, err := pdfdoc.PageCount(path)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

func rscPageCount(path string) (n int) {
	// rsc.io/pdf panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("panic", r).Str("pdf", path).Msg("rsc.io/pdf failed, using fitz")
			n = 0
		}
	}()
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return 0
	}
	doc, err := rpdf.NewReader(f, st.Size())
	if err != nil {
		return 0
	}
	return doc.NumPage()
}

// warnPagePairing logs when image pairing by index must run out of pages.
func warnPagePairing(items, pages int) {
	if pages > 0 && items > pages {
		log.Warn().Int("items", items).Int("pages", pages).
			Msg("template has more items than the document has pages; later slides get no image")
	}
}
