package cli

import (
	"html/template"
	"net/http"

	"github.com/flamedump/flamedump/pkg/spindump"
)

// indexData feeds the HTML index template: one row per thread, the
// report attributes worth showing, and the first renderable thread for
// the inline preview.
type indexData struct {
	Command    string
	Meta       []spindump.Attribute
	Totals     indexTotals
	Threads    []threadRow
	Preview    int
	HasPreview bool
}

type indexTotals struct {
	Threads int
	Samples int
	Frames  int
}

type threadRow struct {
	Index       int
	Description string
	Samples     int
	Frames      int
	MaxDepth    int
	Renderable  bool
}

func (s *reportServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{Command: "flamedump", Preview: -1}
	if cmd, ok := s.rep.Lookup("Command"); ok && cmd != "" {
		data.Command = cmd
	}
	for _, key := range summaryKeys {
		if v, ok := s.rep.Lookup(key); ok && v != "" {
			data.Meta = append(data.Meta, spindump.Attribute{Key: key, Value: v})
		}
	}
	for i, st := range s.stats {
		data.Totals.Threads++
		data.Totals.Samples += st.Samples
		data.Totals.Frames += st.Frames
		row := threadRow{
			Index:       i,
			Description: truncate(st.Description, 90),
			Samples:     st.Samples,
			Frames:      st.Frames,
			MaxDepth:    st.MaxDepth,
			Renderable:  s.layouts[i] != nil,
		}
		if row.Renderable && !data.HasPreview {
			data.Preview = i
			data.HasPreview = true
		}
		data.Threads = append(data.Threads, row)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Errorf("Render index: %v", err)
	}
}

var indexTmpl = template.Must(template.New("index").Parse(tmplIndex))

const tmplIndex = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Command}} · flamedump</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:'JetBrains Mono',monospace,sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5}
a{color:#58a6ff;text-decoration:none}
a:hover{text-decoration:underline}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:8px 16px;display:flex;gap:16px;align-items:center}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px}
nav a{color:#8b949e;padding:4px 8px;border-radius:4px}
nav a:hover{color:#c9d1d9;background:#21262d;text-decoration:none}
main{padding:16px;max-width:1200px;margin:0 auto}
h1{font-size:16px;font-weight:700;color:#f0f6fc;margin-bottom:12px}
h2{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:16px 0 8px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:120px}
.card .val{font-size:22px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
table{width:100%;border-collapse:collapse;font-size:12px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:11px;text-transform:uppercase;letter-spacing:.05em}
td{padding:5px 10px;border-bottom:1px solid #21262d;vertical-align:top}
tr:hover td{background:#161b22}
td.num{text-align:right;font-variant-numeric:tabular-nums}
th.num{text-align:right}
.dim{color:#8b949e}
.meta td:first-child{color:#8b949e;width:140px}
.preview{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:8px;margin-bottom:16px;overflow-x:auto}
.preview img{display:block;width:100%;height:auto;border-radius:4px}
footer{padding:16px;text-align:center;color:#8b949e;font-size:11px}
</style>
</head>
<body>
<nav>
  <span class="brand">flamedump</span>
  <a href="/">Threads</a>
  <a href="/report.json">report.json</a>
</nav>
<main>
<h1>{{.Command}}</h1>

<div class="cards">
  <div class="card"><div class="val">{{.Totals.Threads}}</div><div class="lbl">threads</div></div>
  <div class="card"><div class="val">{{.Totals.Samples}}</div><div class="lbl">samples</div></div>
  <div class="card"><div class="val">{{.Totals.Frames}}</div><div class="lbl">frames</div></div>
</div>

{{if .Meta}}
<h2>Report</h2>
<table class="meta">
{{range .Meta}}  <tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{end}}

{{if .HasPreview}}
<h2>Thread {{.Preview}}</h2>
<div class="preview"><a href="/threads/{{.Preview}}/flame.svg"><img src="/threads/{{.Preview}}/flame.svg" alt="flame graph"></a></div>
{{end}}

<h2>Threads</h2>
<table>
  <tr><th class="num">#</th><th>Thread</th><th class="num">Samples</th><th class="num">Frames</th><th class="num">Depth</th><th>Artifacts</th></tr>
{{range .Threads}}  <tr>
    <td class="num">{{.Index}}</td>
    <td>{{.Description}}</td>
    <td class="num">{{.Samples}}</td>
    <td class="num">{{.Frames}}</td>
    <td class="num">{{.MaxDepth}}</td>
    <td>{{if .Renderable}}<a href="/threads/{{.Index}}/flame.svg">svg</a> · <a href="/threads/{{.Index}}/flame.png">png</a> · <a href="/threads/{{.Index}}/calltree.svg">calltree</a>{{else}}<span class="dim">no samples</span>{{end}}</td>
  </tr>
{{end}}</table>
</main>
<footer>flamedump</footer>
</body>
</html>
`
