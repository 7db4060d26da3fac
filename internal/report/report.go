// Package report assembles the chart images into a PDF and reads PDFs back
// for verification.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ErrNoImages is returned when a report has nothing to lay out.
var ErrNoImages = errors.New("report has no images")

// Page geometry in points, measured from the top-left corner of a US Letter
// page.
const (
	MarginLeft    = 50.0
	TitleBaseline = 50.0
	ImageWidth    = 500.0
	ImageHeight   = 250.0
	ImagesPerPage = 2
)

var (
	lineBaselines = []float64{100, 115}
	imageTops     = []float64{150, 450}
)

// ContinuationPrefix heads every page after the first.
const ContinuationPrefix = "Continuação: "

// Report describes the document to build.
type Report struct {
	Title  string
	Lines  []string // description, at most two lines are drawn
	Images []string // PNG or JPEG paths, in order
}

// New returns the standard rendimento report for a year and set of states.
func New(year int, states []string, images []string) Report {
	return Report{
		Title: fmt.Sprintf("Análise de Taxas de Rendimento Escolar - %d", year),
		Lines: []string{
			"Este relatório apresenta uma análise das taxas de aprovação, reprovação e abandono escolar",
			fmt.Sprintf("nos estados de %s no ano de %d.", JoinStates(states), year),
		},
		Images: images,
	}
}

// JoinStates lists states the Portuguese way: "A, B e C".
func JoinStates(states []string) string {
	switch len(states) {
	case 0:
		return ""
	case 1:
		return states[0]
	default:
		return strings.Join(states[:len(states)-1], ", ") + " e " + states[len(states)-1]
	}
}

// PageCount returns the number of pages Build will produce for n images.
func PageCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + ImagesPerPage - 1) / ImagesPerPage
}

// Build writes the report to path. Missing images are an error; nothing is
// written in that case.
func Build(r Report, path string) error {
	if len(r.Images) == 0 {
		return ErrNoImages
	}
	for _, img := range r.Images {
		if _, err := os.Stat(img); err != nil {
			return fmt.Errorf("checking image %s: %w", img, err)
		}
	}

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(r.Title, true)
	doc.SetCreator("rend", true)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := doc.GetPageSize()

	centered := func(s string) {
		s = tr(s)
		doc.Text((pageWidth-doc.GetStringWidth(s))/2, TitleBaseline, s)
	}

	for start := 0; start < len(r.Images); start += ImagesPerPage {
		doc.AddPage()

		if start == 0 {
			doc.SetFont("Helvetica", "B", 16)
			centered(r.Title)
			doc.SetFont("Helvetica", "", 12)
			for i, line := range r.Lines {
				if i >= len(lineBaselines) {
					break
				}
				doc.Text(MarginLeft, lineBaselines[i], tr(line))
			}
		} else {
			doc.SetFont("Helvetica", "B", 14)
			centered(ContinuationPrefix + r.Title)
		}

		end := min(start+ImagesPerPage, len(r.Images))
		for slot, img := range r.Images[start:end] {
			doc.ImageOptions(img, MarginLeft, imageTops[slot], ImageWidth, ImageHeight,
				false, fpdf.ImageOptions{}, 0, "")
		}
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("laying out report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
