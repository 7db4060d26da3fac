package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/matsen/rendimento/internal/summary"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that write a file.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// newTable returns a go-pretty table writer mirrored to w.
func newTable(w io.Writer, header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}

// rightAlign right-aligns the numbered columns (1-based).
func rightAlign(t table.Writer, cols ...int) {
	configs := make([]table.ColumnConfig, 0, len(cols))
	for _, c := range cols {
		configs = append(configs, table.ColumnConfig{Number: c, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
}

// printSummaryHuman prints the three chart series as tables.
func printSummaryHuman(w io.Writer, s summary.Summary) {
	rates := newTable(w, "Estado", "Aprovação %", "Reprovação %", "Abandono %", "Registros")
	rightAlign(rates, 2, 3, 4, 5)
	for _, r := range s.Rates {
		rates.AppendRow(table.Row{r.State,
			fmt.Sprintf("%.2f", r.Approval),
			fmt.Sprintf("%.2f", r.Failure),
			fmt.Sprintf("%.2f", r.Dropout),
			r.Records})
	}
	rates.Render()

	shares := newTable(w, "Estado", "Abandonos", "Proporção %")
	rightAlign(shares, 2, 3)
	for _, sh := range s.Shares {
		shares.AppendRow(table.Row{sh.State, sh.Count, fmt.Sprintf("%.1f", sh.Percent)})
	}
	shares.Render()

	stages := newTable(w, "Etapa", "Estado", "Abandono %")
	rightAlign(stages, 3)
	for _, st := range s.Stages {
		stages.AppendRow(table.Row{st.Stage, st.State, fmt.Sprintf("%.2f", st.Dropout)})
	}
	stages.Render()
}
