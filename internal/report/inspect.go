package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Info summarizes an existing PDF.
type Info struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages"`
	Title string `json:"title,omitempty"` // first non-empty line of page 1
}

// Inspect opens a PDF and reports its size, page count and first line.
func Inspect(path string) (*Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}

	pages, err := ExtractText(path)
	if err != nil {
		return nil, err
	}

	info := &Info{Path: path, Size: st.Size(), Pages: len(pages)}
	if len(pages) > 0 {
		for _, line := range strings.Split(pages[0], "\n") {
			if line = strings.TrimSpace(line); line != "" {
				info.Title = line
				break
			}
		}
	}
	return info, nil
}

// ExtractText returns the plain text of every page. Pages without content
// yield empty strings.
func ExtractText(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	out := make([]string, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extracting text from page %d: %w", i, err)
		}
		out[i-1] = text
	}
	return out, nil
}
