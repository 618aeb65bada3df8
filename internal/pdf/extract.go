// Package pdf extracts plain text from PDF documents, one string per page.
package pdf

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Extractor opens a document and returns its page texts in order.
type Extractor interface {
	Pages(path string) ([]string, error)
}

// Reader extracts text using the ledongthuc/pdf parser.
type Reader struct{}

// NewReader returns a PDF text extractor.
func NewReader() *Reader { return &Reader{} }

// Pages returns the plain text of every page in the document at path.
// Pages that fail text extraction are returned as empty strings rather than
// failing the whole document.
func (r *Reader) Pages(path string) ([]string, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := doc.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
