package api

import (
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"

	"github.com/neuroscreen/portal/internal/services"
)

const (
	chartHeight  = 220
	chartPadTop  = 16
	chartPadBase = 36
	barWidth     = 36
	barGap       = 20
)

// barChart draws the score history as an inline SVG bar chart.
func barChart(points []services.ChartPoint) template.HTML {
	if len(points) == 0 {
		return ""
	}
	maxScore := 0.0
	for _, p := range points {
		maxScore = math.Max(maxScore, p.Score)
	}
	if maxScore <= 0 {
		maxScore = 1
	}
	plot := float64(chartHeight - chartPadTop - chartPadBase)
	width := len(points)*(barWidth+barGap) + barGap

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="chart" role="img" aria-label="Assessment scores" viewBox="0 0 %d %d" width="%d" height="%d">`, width, chartHeight, width, chartHeight)
	base := chartHeight - chartPadBase
	fmt.Fprintf(&b, `<line x1="0" y1="%d" x2="%d" y2="%d" stroke="#9ca3af"/>`, base, width, base)
	for i, p := range points {
		h := math.Max(p.Score, 0) / maxScore * plot
		x := barGap + i*(barWidth+barGap)
		y := float64(base) - h
		score := formatScore(p.Score)
		fmt.Fprintf(&b, `<rect x="%d" y="%.1f" width="%d" height="%.1f" fill="#6366f1"><title>%s: %s</title></rect>`,
			x, y, barWidth, h, html.EscapeString(p.Label), score)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" font-size="11" text-anchor="middle">%s</text>`, x+barWidth/2, y-4, score)
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="10" text-anchor="middle">%s</text>`, x+barWidth/2, base+16, html.EscapeString(shortLabel(p.Label)))
	}
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}

func formatScore(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// shortLabel drops the year from a 2006-01-02 label.
func shortLabel(l string) string {
	if len(l) == len("2006-01-02") {
		return l[5:]
	}
	return l
}
