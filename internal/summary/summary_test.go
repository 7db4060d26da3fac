package summary

import (
	"testing"

	"github.com/matsen/rendimento/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatesByState(t *testing.T) {
	rates := RatesByState(dataset.Sample())
	require.Len(t, rates, 3)

	assert.Equal(t, "Minas Gerais", rates[0].State)
	assert.Equal(t, "Rio de Janeiro", rates[1].State)
	assert.Equal(t, "São Paulo", rates[2].State)

	mg := rates[0]
	assert.Equal(t, 2, mg.Records)
	assert.InDelta(t, (85.2+82.3)/2, mg.Approval, 1e-9)
	assert.InDelta(t, (8.1+10.2)/2, mg.Failure, 1e-9)
	assert.InDelta(t, (6.7+7.5)/2, mg.Value(IndicatorDropout), 1e-9)
	assert.Zero(t, mg.Value("unknown"))
}

func TestDropoutShare(t *testing.T) {
	shares := DropoutShare(dataset.Sample())
	require.Len(t, shares, 3)

	var total float64
	for _, s := range shares {
		total += s.Percent
	}
	assert.InDelta(t, 100, total, 1e-9)

	sp := shares[2]
	assert.Equal(t, "São Paulo", sp.State)
	assert.Equal(t, int64(140000+138000), sp.Count)
}

func TestDropoutShare_ZeroTotal(t *testing.T) {
	shares := DropoutShare([]dataset.Record{{State: "Minas Gerais"}})
	require.Len(t, shares, 1)
	assert.Zero(t, shares[0].Percent)
}

func TestDropoutByStage(t *testing.T) {
	records := append(dataset.Sample(), dataset.Record{
		State: "Minas Gerais", Stage: "Fundamental", DropoutRate: 8.7,
	})
	stages := DropoutByStage(records)
	require.Len(t, stages, 6)

	first := stages[0]
	assert.Equal(t, "Fundamental", first.Stage)
	assert.Equal(t, "Minas Gerais", first.State)
	assert.InDelta(t, (6.7+8.7)/2, first.Dropout, 1e-9)

	assert.Equal(t, []string{"Fundamental", "Médio"}, Stages(stages))
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil)
	assert.Empty(t, s.Rates)
	assert.Empty(t, s.Shares)
	assert.Empty(t, s.Stages)
}
