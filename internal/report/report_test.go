package report

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: 0x77, B: 0xb4, A: 0xff})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestBuild_PageCount(t *testing.T) {
	tests := []struct {
		images int
		pages  int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
	}

	for _, tt := range tests {
		t.Run(strings.Repeat("i", tt.images), func(t *testing.T) {
			dir := t.TempDir()
			var images []string
			for i := 0; i < tt.images; i++ {
				images = append(images, writePNG(t, dir, string(rune('a'+i))+".png"))
			}

			out := filepath.Join(dir, "relatorio_visualizacao.pdf")
			require.NoError(t, Build(New(2023, []string{"Minas Gerais", "São Paulo"}, images), out))

			info, err := Inspect(out)
			require.NoError(t, err)
			assert.Equal(t, tt.pages, info.Pages)
			assert.Equal(t, PageCount(tt.images), info.Pages)
			assert.Positive(t, info.Size)
		})
	}
}

func TestBuild_Text(t *testing.T) {
	dir := t.TempDir()
	images := []string{
		writePNG(t, dir, "plot1.png"),
		writePNG(t, dir, "plot2.png"),
		writePNG(t, dir, "plot3.png"),
	}
	out := filepath.Join(dir, "report.pdf")
	require.NoError(t, Build(Report{Title: "Rendimento Escolar", Lines: []string{"Linha um", "Linha dois", "ignored"}, Images: images}, out))

	pages, err := ExtractText(out)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "Rendimento")
	assert.NotContains(t, pages[0], "ignored")
	assert.Contains(t, pages[1], "Rendimento")
}

func TestBuild_Errors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.pdf")

	err := Build(Report{Title: "x"}, out)
	assert.True(t, errors.Is(err, ErrNoImages), "got %v", err)

	err = Build(Report{Title: "x", Images: []string{filepath.Join(dir, "missing.png")}}, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no PDF should be written on error")
}

func TestInspect_NotPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0644))

	_, err := Inspect(path)
	assert.Error(t, err)

	_, err = Inspect(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestJoinStates(t *testing.T) {
	tests := []struct {
		states []string
		want   string
	}{
		{nil, ""},
		{[]string{"Minas Gerais"}, "Minas Gerais"},
		{[]string{"Minas Gerais", "São Paulo"}, "Minas Gerais e São Paulo"},
		{[]string{"Minas Gerais", "São Paulo", "Rio de Janeiro"}, "Minas Gerais, São Paulo e Rio de Janeiro"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinStates(tt.states))
	}
}

func TestNew(t *testing.T) {
	r := New(2023, []string{"Minas Gerais", "São Paulo", "Rio de Janeiro"}, []string{"a.png"})
	assert.Equal(t, "Análise de Taxas de Rendimento Escolar - 2023", r.Title)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "nos estados de Minas Gerais, São Paulo e Rio de Janeiro no ano de 2023.", r.Lines[1])
}

func TestViewerCommand(t *testing.T) {
	tests := []struct {
		goos, viewer string
		wantArgs     []string
		wantErr      bool
	}{
		{"linux", "", []string{"xdg-open", "r.pdf"}, false},
		{"linux", "zathura", []string{"zathura", "r.pdf"}, false},
		{"darwin", "system", []string{"open", "r.pdf"}, false},
		{"darwin", "skim", []string{"open", "-a", "Skim", "r.pdf"}, false},
		{"darwin", "evince", nil, true},
		{"windows", "system", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.viewer, func(t *testing.T) {
			cmd, err := viewerCommand(tt.goos, tt.viewer, "r.pdf")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantArgs, cmd.Args)
		})
	}
}

func TestOpen_Missing(t *testing.T) {
	err := Open(filepath.Join(t.TempDir(), "missing.pdf"), "system")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
