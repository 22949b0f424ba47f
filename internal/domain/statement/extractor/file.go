package extractor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dslipak/pdf"
)

// ErrSourceNotFound means the input path does not resolve. Fatal before any
// parsing starts.
var ErrSourceNotFound = errors.New("source file not found")

// ExtractFile opens a PDF statement and tokenizes every page into one
// combined stream. Pages that yield nothing contribute nothing.
func (e *Extractor) ExtractFile(path string) (Tokens, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Tokens{}, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return Tokens{}, fmt.Errorf("stat %s: %w", path, err)
	}

	r, err := pdf.Open(path)
	if err != nil {
		return Tokens{}, fmt.Errorf("open pdf %s: %w", path, err)
	}

	var doc Tokens
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// A single unreadable page degrades to an empty contribution.
			continue
		}
		doc = Merge(doc, e.ExtractPage(text, pageNum))
	}
	return doc, nil
}
