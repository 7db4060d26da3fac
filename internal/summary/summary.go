// Package summary aggregates dataset records into the series the charts plot.
package summary

import (
	"sort"

	"github.com/matsen/rendimento/internal/dataset"
)

// Indicator names, in the order they are plotted.
const (
	IndicatorApproval = "Taxa_Aprovacao"
	IndicatorFailure  = "Taxa_Reprovacao"
	IndicatorDropout  = "Taxa_Abandono"
)

// Indicators lists the rate indicators.
var Indicators = []string{IndicatorApproval, IndicatorFailure, IndicatorDropout}

// StateRates holds mean rates for one state.
type StateRates struct {
	State    string  `json:"state"`
	Approval float64 `json:"approval"`
	Failure  float64 `json:"failure"`
	Dropout  float64 `json:"dropout"`
	Records  int     `json:"records"`
}

// Value returns the mean rate for an indicator name.
func (s StateRates) Value(indicator string) float64 {
	switch indicator {
	case IndicatorApproval:
		return s.Approval
	case IndicatorFailure:
		return s.Failure
	case IndicatorDropout:
		return s.Dropout
	default:
		return 0
	}
}

// Share is one state's slice of the total dropout count.
type Share struct {
	State   string  `json:"state"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// StageRate is the mean dropout rate for a (state, stage) pair.
type StageRate struct {
	State   string  `json:"state"`
	Stage   string  `json:"stage"`
	Dropout float64 `json:"dropout"`
}

// Summary bundles every aggregate the report needs.
type Summary struct {
	Rates  []StateRates `json:"rates"`
	Shares []Share      `json:"shares"`
	Stages []StageRate  `json:"stages"`
}

// Compute aggregates records into all three series.
func Compute(records []dataset.Record) Summary {
	return Summary{
		Rates:  RatesByState(records),
		Shares: DropoutShare(records),
		Stages: DropoutByStage(records),
	}
}

// States returns the sorted distinct states in records.
func States(records []dataset.Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.State] {
			seen[r.State] = true
			out = append(out, r.State)
		}
	}
	sort.Strings(out)
	return out
}

// RatesByState returns the mean approval, failure and dropout rate per
// state, sorted by state.
func RatesByState(records []dataset.Record) []StateRates {
	acc := make(map[string]*StateRates)
	for _, r := range records {
		s, ok := acc[r.State]
		if !ok {
			s = &StateRates{State: r.State}
			acc[r.State] = s
		}
		s.Approval += r.ApprovalRate
		s.Failure += r.FailureRate
		s.Dropout += r.DropoutRate
		s.Records++
	}

	out := make([]StateRates, 0, len(acc))
	for _, state := range States(records) {
		s := acc[state]
		n := float64(s.Records)
		s.Approval /= n
		s.Failure /= n
		s.Dropout /= n
		out = append(out, *s)
	}
	return out
}

// DropoutShare returns each state's summed dropout count and its percentage
// of the total. Percentages are zero when the total is zero.
func DropoutShare(records []dataset.Record) []Share {
	counts := make(map[string]int64)
	var total int64
	for _, r := range records {
		counts[r.State] += r.DropoutCount
		total += r.DropoutCount
	}

	out := make([]Share, 0, len(counts))
	for _, state := range States(records) {
		sh := Share{State: state, Count: counts[state]}
		if total > 0 {
			sh.Percent = 100 * float64(sh.Count) / float64(total)
		}
		out = append(out, sh)
	}
	return out
}

// DropoutByStage returns the mean dropout rate per (state, stage), sorted by
// stage then state. Records without a stage are grouped under "".
func DropoutByStage(records []dataset.Record) []StageRate {
	type key struct{ state, stage string }
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, r := range records {
		k := key{r.State, r.Stage}
		sums[k] += r.DropoutRate
		counts[k]++
	}

	out := make([]StageRate, 0, len(sums))
	for k, sum := range sums {
		out = append(out, StageRate{State: k.state, Stage: k.stage, Dropout: sum / float64(counts[k])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stage != out[j].Stage {
			return out[i].Stage < out[j].Stage
		}
		return out[i].State < out[j].State
	})
	return out
}

// Stages returns the sorted distinct stages in a StageRate series.
func Stages(rates []StageRate) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rates {
		if !seen[r.Stage] {
			seen[r.Stage] = true
			out = append(out, r.Stage)
		}
	}
	sort.Strings(out)
	return out
}
