package web

import (
	"html/template"
	"net/http"

	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/heatmap"
	"github.com/ramanasai/streak/internal/records"
	"github.com/ramanasai/streak/internal/render"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>streak</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #24292f; }
section { margin-bottom: 2.5rem; }
h2 { margin-bottom: .25rem; }
.stats { color: #57606a; font-size: .9rem; margin: .25rem 0 .75rem; }
.row { display: flex; gap: 2rem; flex-wrap: wrap; align-items: flex-start; }
</style>
</head>
<body>
<h1>streak</h1>
{{range .}}
<section id="{{.Kind}}">
  <h2>{{.Title}}</h2>
  <p class="stats">last {{len .Days}} days: total {{printf "%.1f" .Stats.Total}}{{.Unit}}, average {{printf "%.1f" .Stats.Average}}{{.Unit}}, streak {{.Stats.Streak}}</p>
  <div class="row">
    <div>{{.Heatmap}}</div>
    <div>{{.Bars}}</div>
  </div>
</section>
{{end}}
</body>
</html>
`))

type kindView struct {
	Kind    records.Kind
	Title   string
	Unit    string
	Days    []analytics.DailyTotal
	Stats   analytics.Stats
	Heatmap template.HTML
	Bars    template.HTML
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	now := s.opts.Now()
	start, end := heatmap.Window(now, s.opts.HeatmapMonths, s.opts.Location)

	views := make([]kindView, 0, len(records.Kinds))
	for _, kind := range records.Kinds {
		recs, err := s.store.All(r.Context(), kind)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		series := analytics.Daily(recs, kind, s.opts.SummaryDays, now, s.opts.Location, s.log)
		grid := render.KindGrid(recs, kind, start, end, s.opts.Location, s.log)
		views = append(views, kindView{
			Kind:  kind,
			Title: kind.Title(),
			Unit:  analytics.Unit(kind),
			Days:  series,
			Stats: analytics.Summarize(series),
			// both renderers escape every interpolated string
			Heatmap: template.HTML(render.HeatmapSVG(grid)),
			Bars:    template.HTML(render.BarChartSVG(series, analytics.Unit(kind))),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, views); err != nil {
		s.log.Error("render index", slog.Any("error", err))
	}
}
