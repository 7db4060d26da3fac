package viz

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/rendimento/internal/relgraph"
)

func exampleGraph(t *testing.T) *GraphData {
	t.Helper()
	g := relgraph.Build([]relgraph.Row{
		{State: "Minas Gerais", Location: "Urbana", Dependency: "Estadual"},
		{State: "São Paulo", Location: "Urbana", Dependency: "Estadual"},
	})
	layout, err := g.Layout(relgraph.DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	return FromGraph(g, layout)
}

func TestFromGraph(t *testing.T) {
	data := exampleGraph(t)

	if len(data.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(data.Nodes))
	}
	if len(data.Edges) != 3 {
		t.Fatalf("got %d edges, want 3", len(data.Edges))
	}

	wantGroups := map[string]string{
		"Minas Gerais": "Estado",
		"Urbana":       "Localizacao",
		"Estadual":     "Dependencia",
		"São Paulo":    "Estado",
	}
	ids := make(map[string]bool)
	for _, n := range data.Nodes {
		if n.Group != wantGroups[n.Label] {
			t.Errorf("node %q group = %q, want %q", n.Label, n.Group, wantGroups[n.Label])
		}
		if n.Color != colorForGroup(n.Group) {
			t.Errorf("node %q color = %q", n.Label, n.Color)
		}
		if n.X < -1 || n.X > 1 || n.Y < -1 || n.Y > 1 {
			t.Errorf("node %q position (%v, %v) outside [-1, 1]", n.Label, n.X, n.Y)
		}
		ids[n.ID] = true
	}
	for _, e := range data.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			t.Errorf("edge %+v references unknown node", e)
		}
	}

	urbana := data.Nodes[1]
	if urbana.Label != "Urbana" || urbana.Degree != 3 {
		t.Errorf("Nodes[1] = %+v, want Urbana with degree 3", urbana)
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	data := &GraphData{
		Nodes: []Node{
			{ID: "n0", Label: "Minas Gerais", Group: "Estado", X: 0.5, Y: 1},
			{ID: "n1", Label: "Urbana", Group: "Localizacao"},
		},
		Edges: []Edge{{Source: "n0", Target: "n1"}},
	}

	out, err := data.ToCytoscapeJSON()
	if err != nil {
		t.Fatalf("ToCytoscapeJSON() error = %v", err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(out), &elements); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(elements.Nodes) != 2 || len(elements.Edges) != 1 {
		t.Fatalf("got %d nodes and %d edges", len(elements.Nodes), len(elements.Edges))
	}
	pos := elements.Nodes[0].Position
	if pos.X != 150 || pos.Y != -300 {
		t.Errorf("position = %+v, want {150 -300}", pos)
	}
	if elements.Edges[0].Data.ID != "n0-n1-0" {
		t.Errorf("edge ID = %q", elements.Edges[0].Data.ID)
	}
}

func TestGenerateHTML(t *testing.T) {
	data := exampleGraph(t)

	tests := []struct {
		name       string
		opts       HTMLOptions
		wantLayout string
		wantErr    bool
	}{
		{"default preset", DefaultOptions(), `"preset"`, false},
		{"empty layout", HTMLOptions{}, `"preset"`, false},
		{"force", HTMLOptions{Layout: "force"}, `"cose"`, false},
		{"circle", HTMLOptions{Layout: "circle"}, `"circle"`, false},
		{"grid", HTMLOptions{Layout: "grid"}, `"grid"`, false},
		{"invalid", HTMLOptions{Layout: "spiral"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := GenerateHTML(data, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Error("GenerateHTML() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateHTML() error = %v", err)
			}
			if !strings.Contains(html, "const layout = "+tt.wantLayout) {
				t.Errorf("layout %s not found in page", tt.wantLayout)
			}
			if !strings.Contains(html, "Minas Gerais") {
				t.Error("page is missing node labels")
			}
			if !strings.Contains(html, cdnScript) {
				t.Error("page should load Cytoscape.js from the CDN")
			}
		})
	}
}

func TestGenerateHTML_InlineScript(t *testing.T) {
	html, err := GenerateHTML(exampleGraph(t), HTMLOptions{InlineScript: "window.cytoscape = function() {};"})
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if strings.Contains(html, "unpkg.com") {
		t.Error("inline page should not reference the CDN")
	}
	if !strings.Contains(html, "window.cytoscape = function() {};") {
		t.Error("inline script not embedded")
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	html, err := GenerateHTML(&GraphData{}, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if !strings.Contains(html, "Sem dados para o grafo") {
		t.Error("empty page missing its message")
	}

	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("GenerateHTML(nil) expected error")
	}
}

func TestRenderPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "grafo_conexoes.png")
	if err := RenderPNG(exampleGraph(t), path); err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestNewPlot_UnknownEdgeNode(t *testing.T) {
	data := &GraphData{
		Nodes: []Node{{ID: "n0", Label: "A", Group: "Estado"}},
		Edges: []Edge{{Source: "n0", Target: "n9"}},
	}
	if _, err := NewPlot(data); err == nil {
		t.Error("NewPlot() expected error for dangling edge")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#4A90D9")
	if err != nil {
		t.Fatalf("parseHexColor() error = %v", err)
	}
	if c.R != 0x4a || c.G != 0x90 || c.B != 0xd9 || c.A != 0xff {
		t.Errorf("parseHexColor() = %+v", c)
	}
	if _, err := parseHexColor("blue"); err == nil {
		t.Error("parseHexColor(\"blue\") expected error")
	}
}
