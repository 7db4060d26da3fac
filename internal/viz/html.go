package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// cdnScript loads Cytoscape.js when no inline copy is supplied.
const cdnScript = `<script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>`

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "preset", "force", "circle", or "grid"

	// InlineScript is Cytoscape.js source to embed for offline viewing.
	// Empty means load it from the CDN.
	InlineScript string
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{Layout: "preset"}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"preset", "force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML file for the graph visualization.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	title := graph.Title
	if title == "" {
		title = DefaultTitle
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(title)
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:     title,
		ScriptTag: template.HTML(buildScriptTag(opts.InlineScript)),
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
		Legend:    legendEntries(),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering graph page: %w", err)
	}

	return buf.String(), nil
}

func validateLayout(layout string) error {
	switch layout {
	case "", "preset", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be preset, force, circle, or grid", layout)
	}
}

type legendEntry struct {
	Group string
	Color string
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	ScriptTag template.HTML
	GraphJSON template.JS
	Layout    string
	Legend    []legendEntry
}

func legendEntries() []legendEntry {
	groups := []string{"Estado", "Localizacao", "Dependencia"}
	out := make([]legendEntry, 0, len(groups))
	for _, g := range groups {
		out = append(out, legendEntry{Group: g, Color: colorForGroup(g)})
	}
	return out
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	case "force":
		return "cose"
	default:
		return "preset"
	}
}

func buildScriptTag(inline string) string {
	if inline != "" {
		return "<script>" + inline + "</script>"
	}
	return cdnScript
}

var emptyTemplate = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>Sem dados para o grafo</h2>
    <p>Nenhum registro passou pelo filtro de ano e estados.</p>
    <p>Confira <code>rend config show</code> e o arquivo de dados.</p>
  </div>
</body>
</html>`))

func generateEmptyHTML(title string) (string, error) {
	var buf bytes.Buffer
	if err := emptyTemplate.Execute(&buf, title); err != nil {
		return "", fmt.Errorf("rendering empty graph page: %w", err)
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  {{.ScriptTag}}
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    h1 {
      font-size: 18px;
      margin: 0;
      padding: 12px 16px;
      background: white;
      border-bottom: 1px solid #ddd;
    }
    #cy {
      width: 100%;
      height: calc(100vh - 46px);
      background: white;
    }
    #legend {
      position: absolute;
      top: 56px;
      right: 16px;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      font-size: 13px;
    }
    #legend span.swatch {
      display: inline-block;
      width: 10px;
      height: 10px;
      border-radius: 50%;
      margin-right: 6px;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .label {
      font-weight: bold;
    }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div id="cy"></div>
  <div id="legend">
    {{range .Legend}}<div><span class="swatch" style="background: {{.Color}}"></span>{{.Group}}</div>
    {{end}}
  </div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = {{.Layout}};

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(color)',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '11px',
              'text-valign': 'top',
              'text-margin-y': '-5px',
              'width': 'mapData(degree, 0, 6, 18, 36)',
              'height': 'mapData(degree, 0, 6, 18, 36)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#888',
              'width': 1
            }
          },
          {
            selector: 'node.highlighted',
            style: {
              'border-width': 3,
              'border-color': '#ff6b6b'
            }
          },
          {
            selector: 'node.dimmed',
            style: {
              'opacity': 0.3
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'opacity': 0.2
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          fit: true,
          padding: 40
        }
      });

      const tooltip = document.getElementById('tooltip');

      function escapeHtml(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      cy.on('mouseover', 'node', function(evt) {
        const data = evt.target.data();
        tooltip.innerHTML = '<div class="type">' + escapeHtml(data.group) + '</div>' +
          '<div class="label">' + escapeHtml(data.label) + '</div>' +
          '<div>Conexões: ' + data.degree + '</div>';
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 60) + 'px';
      });

      cy.on('mouseout', 'node', function() {
        tooltip.style.display = 'none';
      });

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        cy.elements().removeClass('highlighted dimmed');
        const neighborhood = node.neighborhood().add(node);
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
