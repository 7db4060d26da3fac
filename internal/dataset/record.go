// Package dataset loads and filters the INEP school performance CSV.
package dataset

import (
	"errors"

	"github.com/matsen/rendimento/internal/relgraph"
)

// ErrInvalidInput is the single error category for unusable input data:
// missing file, missing required column, unparsable value, or nothing left
// after filtering.
var ErrInvalidInput = errors.New("input data invalid")

// Column names as they appear in the published CSV.
const (
	ColYear          = "Ano"
	ColState         = "Unidade_Geografica"
	ColLocation      = "Localizacao"
	ColDependency    = "Dependencia_Administrativa"
	ColStage         = "Etapa_Ensino"
	ColApprovalRate  = "Taxa_Aprovacao"
	ColFailureRate   = "Taxa_Reprovacao"
	ColDropoutRate   = "Taxa_Abandono"
	ColApprovalCount = "Num_Aprovacao"
	ColFailureCount  = "Num_Reprovacao"
	ColDropoutCount  = "Num_Abandono"
)

// RequiredColumns must be present in every input file.
var RequiredColumns = []string{ColYear, ColState, ColLocation, ColDependency}

// OptionalColumns feed the charts and default to zero when absent.
var OptionalColumns = []string{
	ColStage,
	ColApprovalRate, ColFailureRate, ColDropoutRate,
	ColApprovalCount, ColFailureCount, ColDropoutCount,
}

// Record is one row of the dataset.
type Record struct {
	Year       int    `json:"year"`
	State      string `json:"state"`
	Location   string `json:"location"`
	Dependency string `json:"dependency"`
	Stage      string `json:"stage,omitempty"`

	ApprovalRate float64 `json:"approval_rate"`
	FailureRate  float64 `json:"failure_rate"`
	DropoutRate  float64 `json:"dropout_rate"`

	ApprovalCount int64 `json:"approval_count"`
	FailureCount  int64 `json:"failure_count"`
	DropoutCount  int64 `json:"dropout_count"`
}

// GraphRow projects the record onto the three categorical graph columns.
func (r Record) GraphRow() relgraph.Row {
	return relgraph.Row{
		State:      r.State,
		Location:   r.Location,
		Dependency: r.Dependency,
	}
}

// GraphRows projects records onto graph rows. Rows with a blank categorical
// value are dropped and counted in skipped.
func GraphRows(records []Record) (rows []relgraph.Row, skipped int) {
	rows = make([]relgraph.Row, 0, len(records))
	for _, r := range records {
		if r.State == "" || r.Location == "" || r.Dependency == "" {
			skipped++
			continue
		}
		rows = append(rows, r.GraphRow())
	}
	return rows, skipped
}
