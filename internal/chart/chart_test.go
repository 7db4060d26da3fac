package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/rendimento/internal/dataset"
	"github.com/matsen/rendimento/internal/summary"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRatesBar(t *testing.T) {
	rates := summary.RatesByState(dataset.Sample())
	p, err := RatesBar(rates, 2023)
	require.NoError(t, err)
	assert.Equal(t, "Taxas de Rendimento Escolar por Estado - 2023 (%)", p.Title.Text)

	path := filepath.Join(t.TempDir(), "plots", "plot1_taxas_percentuais.png")
	require.NoError(t, Save(p, path, BarSize))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "output is not a PNG")
}

func TestDropoutPie(t *testing.T) {
	shares := summary.DropoutShare(dataset.Sample())
	p := DropoutPie(shares, 2023)
	assert.Equal(t, "Proporção de Alunos que Abandonaram a Escola em 2023", p.Title.Text)

	var buf bytes.Buffer
	require.NoError(t, Encode(p, &buf, PieSize, "png"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestDropoutPie_ZeroTotal(t *testing.T) {
	p := DropoutPie([]summary.Share{{State: "Minas Gerais"}}, 2023)

	var buf bytes.Buffer
	require.NoError(t, Encode(p, &buf, PieSize, "png"))
	assert.NotZero(t, buf.Len())
}

func TestPieTotal(t *testing.T) {
	pie := &Pie{Values: []float64{1, 2, 3.5}}
	assert.InDelta(t, 6.5, pie.Total(), 1e-12)
}

func TestStageBar(t *testing.T) {
	stages := summary.DropoutByStage(dataset.Sample())
	p, err := StageBar(stages, 2023)
	require.NoError(t, err)
	assert.Equal(t, "Taxa de Abandono Escolar por Etapa de Ensino (2023)", p.Title.Text)

	var buf bytes.Buffer
	require.NoError(t, Encode(p, &buf, BarSize, "svg"))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRatesBar_Empty(t *testing.T) {
	_, err := RatesBar(nil, 2023)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrInvalidInput))
}

func TestEncode_UnknownFormat(t *testing.T) {
	p, err := RatesBar(summary.RatesByState(dataset.Sample()), 2023)
	require.NoError(t, err)
	assert.Error(t, Encode(p, &bytes.Buffer{}, BarSize, "bmp"))
}

func TestGroupOffset(t *testing.T) {
	tests := []struct {
		i, n int
		want float64
	}{
		{0, 3, -10},
		{1, 3, 0},
		{2, 3, 10},
		{0, 2, -5},
		{0, 1, 0},
	}
	for _, tt := range tests {
		if got := float64(groupOffset(tt.i, tt.n, 10)); got != tt.want {
			t.Errorf("groupOffset(%d, %d) = %v, want %v", tt.i, tt.n, got, tt.want)
		}
	}
}
