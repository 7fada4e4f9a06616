package http

import (
	"fmt"
	"html/template"

	"github.com/ecsitomi/donki-dashboard/internal/config"
	"github.com/ecsitomi/donki-dashboard/internal/dashboard"
	"github.com/ecsitomi/donki-dashboard/internal/domain"
)

// ── Template helpers ──────────────────────────────────────────────────────────

// chartHeight is the height of the tallest bar, in pixels.
const chartHeight = 300

var funcMap = template.FuncMap{
	"indent": func(depth int) string {
		return fmt.Sprintf("%dpx", 12+depth*16)
	},
	"isHeader": func(l domain.Line) bool { return l.Kind == domain.LineHeader },
	"isItem":   func(l domain.Line) bool { return l.Kind == domain.LineItem },
	"isLink":   func(l domain.Line) bool { return l.Kind == domain.LineLink },
	"px":       func(n int) string { return fmt.Sprintf("%dpx", n) },
}

// bar is one day of the chart.
type bar struct {
	Date   string
	Count  int
	Height int
}

// pageView adds presentation-only fields to a dashboard page.
type pageView struct {
	dashboard.Page
	Bars       []bar
	EventTypes []domain.EventType
	MinDays    int
	MaxDays    int
}

func newPageView(p dashboard.Page) pageView {
	return pageView{
		Page:       p,
		Bars:       bars(p.Series),
		EventTypes: domain.EventTypes,
		MinDays:    config.MinWindowDays,
		MaxDays:    config.MaxWindowDays,
	}
}

// bars scales the series so the busiest day fills the chart.
func bars(series []domain.DailyCount) []bar {
	peak := domain.MaxCount(series)
	out := make([]bar, len(series))
	for i, c := range series {
		h := 0
		if peak > 0 {
			h = c.Count * chartHeight / peak
		}
		out[i] = bar{Date: c.Date, Count: c.Count, Height: h}
	}
	return out
}

// ── Base layout ───────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>NASA Space Weather Dashboard</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:'JetBrains Mono',monospace,sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5;display:flex;min-height:100vh}
a{color:#58a6ff;text-decoration:none}
a:hover{text-decoration:underline}
aside{background:#161b22;border-right:1px solid #30363d;padding:16px;width:280px;flex-shrink:0}
aside h2{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:0 0 8px}
aside label{display:block;font-size:11px;color:#8b949e;margin:8px 0 4px}
aside select,aside input{width:100%;background:#0d1117;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:3px 6px;font-size:12px;font-family:inherit}
aside button{margin-top:8px;background:#1f6feb;border:none;color:#fff;padding:4px 12px;border-radius:4px;cursor:pointer;font-size:12px}
main{padding:16px;flex:1;min-width:0}
h1{font-size:18px;font-weight:700;color:#f0f6fc;margin-bottom:8px}
h3{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:16px 0 8px}
.caption{color:#8b949e;margin-bottom:16px}
.caption b{color:#f0f6fc}
.section{background:#161b22;border:1px solid #30363d;border-radius:6px;margin-bottom:16px;overflow:hidden}
.notice{padding:8px 12px;border-radius:4px;margin:4px 0;font-size:12px}
.notice.warn{background:#f59e0b22;color:#fbbf24}
.notice.err{background:#f8717122;color:#f87171}
.notice.info{background:#1f6feb22;color:#58a6ff}
.chart-wrap{overflow-x:auto;padding:12px}
.chart{display:flex;align-items:flex-end;gap:2px;height:300px}
.chart .col{display:flex;flex-direction:column;align-items:center;justify-content:flex-end;width:18px;flex-shrink:0;height:100%}
.chart .bar{background:#1f6feb;width:100%;border-radius:3px 3px 0 0}
.chart .cnt{font-size:9px;color:#8b949e}
.axis{display:flex;gap:2px;padding:0 12px 12px}
.axis span{width:18px;flex-shrink:0;font-size:9px;color:#8b949e;writing-mode:vertical-rl;transform:rotate(180deg);height:70px}
details{margin-top:8px}
details summary{cursor:pointer;color:#8b949e;font-size:12px}
details summary:hover{color:#c9d1d9}
.event summary{padding:8px 12px;color:#c9d1d9}
.meta{padding:4px 12px;color:#8b949e;font-size:11px}
.line{padding:1px 12px;white-space:pre-wrap;word-break:break-word}
.line .key{color:#8b949e;font-weight:600}
.line.hdr{color:#79c0ff;font-weight:600}
</style>
</head>
<body>
<aside>
  <h2>Filters</h2>
  <form method="GET" action="/">
    <label for="days">Show events from the past <b id="days-val">{{.Selection.Days}}</b> days</label>
    <input id="days" name="days" type="range" min="{{.MinDays}}" max="{{.MaxDays}}" value="{{.Selection.Days}}"
      oninput="document.getElementById('days-val').textContent=this.value">
    <label for="type">Select Event Type</label>
    <select id="type" name="type">
    {{range .EventTypes}}<option value="{{.}}" {{if eq . $.Selection.Type}}selected{{end}}>{{.}}</option>{{end}}
    </select>
    <button type="submit">Apply</button>
  </form>

  <details>
    <summary>🌍 Earth Impacts</summary>
    {{range .Impacts.Earth}}
    <div class="notice err">Earth: {{.Arrival}}</div>
    {{else}}
    <div class="notice info">No Earth-directed impacts found.</div>
    {{end}}
  </details>

  <details>
    <summary>🪐 Other Impacts</summary>
    {{range .Impacts.Other}}
    <div class="notice warn">{{.Location}}: {{.Arrival}}</div>
    {{else}}
    <div class="notice info">No other planetary impacts found.</div>
    {{end}}
  </details>
</aside>
<main>
<h1>☀️ NASA Space Weather Dashboard</h1>
{{template "content" .}}
</main>
</body>
</html>
{{end}}
`

// ── Dashboard ─────────────────────────────────────────────────────────────────

const tmplContent = `
{{define "content"}}
<div class="caption">Showing <b>{{.Selection.Type}}</b> events from <b>{{.Range.StartDate}}</b> to <b>{{.Range.EndDate}}</b></div>

{{if .Empty}}
<div class="notice warn">{{.NoEventsNotice}}</div>
{{else}}
<h3>📊 Event Distribution Over Time</h3>
<div class="section">
  <div class="chart-wrap" style="max-width:{{px .ChartWidth}}">
    <div class="chart">
    {{range .Bars}}
      <div class="col" title="{{.Date}}: {{.Count}}">
        {{if .Count}}<span class="cnt">{{.Count}}</span>{{end}}
        <div class="bar" style="height:{{px .Height}}"></div>
      </div>
    {{end}}
    </div>
  </div>
  <div class="axis">{{range .Bars}}<span>{{.Date}}</span>{{end}}</div>
</div>

{{range .Panels}}
<details class="section event">
  <summary>📡 {{$.PanelTitle .}}</summary>
  {{with .Summary}}{{if or .StartTime .SourceLocation .Note .Link}}
  <div class="meta">
    {{with .StartTime}}<div>Start Time: {{.}}</div>{{end}}
    {{with .SourceLocation}}<div>Source Location: {{.}}</div>{{end}}
    {{with .Note}}<div>Note: {{.}}</div>{{end}}
    {{with .Link}}<div>Link: <a href="{{.}}" target="_blank" rel="noopener">🔗 Link</a></div>{{end}}
  </div>
  {{end}}{{end}}
  {{range .Lines}}
  {{if isHeader .}}
  <div class="line hdr" style="padding-left:{{indent .Depth}}">🔹 {{.Label}}</div>
  {{else if isLink .}}
  <div class="line" style="padding-left:{{indent .Depth}}"><span class="key">{{.Key}}:</span> <a href="{{.Value}}" target="_blank" rel="noopener">🔗 Link</a></div>
  {{else if isItem .}}
  <div class="line" style="padding-left:{{indent .Depth}}">• <span class="key">{{.Key}}:</span> {{.Value}}</div>
  {{else}}
  <div class="line" style="padding-left:{{indent .Depth}}"><span class="key">{{.Key}}:</span> {{.Value}}</div>
  {{end}}
  {{end}}
</details>
{{end}}
{{end}}
{{end}}
`

var tmplDashboard = tmplBase + tmplContent
