package api

import (
	"strings"
	"testing"

	"github.com/neuroscreen/portal/internal/services"
)

func TestBarChart(t *testing.T) {
	cases := []struct {
		name    string
		points  []services.ChartPoint
		want    []string
		notWant []string
	}{
		{name: "empty", points: nil},
		{
			name:    "all zero",
			points:  []services.ChartPoint{{Label: "2025-03-01", Score: 0}, {Label: "2025-03-02", Score: 0}},
			want:    []string{`height="0.0"`, ">03-01<", ">03-02<"},
			notWant: []string{"NaN", "Inf"},
		},
		{
			name:    "negative score",
			points:  []services.ChartPoint{{Label: "2025-03-01", Score: -3}, {Label: "2025-03-02", Score: 4.5}},
			want:    []string{`height="0.0"`, ">-3<", ">4.5<", `height="168.0"`},
			notWant: []string{`height="-`, "NaN"},
		},
		{
			name:    "label escaped",
			points:  []services.ChartPoint{{Label: "<b>", Score: 2}},
			want:    []string{"&lt;b&gt;"},
			notWant: []string{"<b>"},
		},
	}
	for _, c := range cases {
		got := string(barChart(c.points))
		if len(c.points) == 0 {
			if got != "" {
				t.Fatalf("%s: want no markup, got %q", c.name, got)
			}
			continue
		}
		if !strings.HasPrefix(got, "<svg") || !strings.HasSuffix(got, "</svg>") {
			t.Fatalf("%s: not an svg: %q", c.name, got)
		}
		if n := strings.Count(got, "<rect"); n != len(c.points) {
			t.Fatalf("%s: %d bars, want %d", c.name, n, len(c.points))
		}
		for _, w := range c.want {
			if !strings.Contains(got, w) {
				t.Fatalf("%s: missing %q in %s", c.name, w, got)
			}
		}
		for _, w := range c.notWant {
			if strings.Contains(got, w) {
				t.Fatalf("%s: unexpected %q in %s", c.name, w, got)
			}
		}
	}
}
