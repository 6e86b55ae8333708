package report

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
)

// The HTML report must open offline with no CDN or external assets, so
// charts are rendered as inline SVG and embedded as data URIs.

var chartPalette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}

type chartSeries struct {
	Name   string
	Values []float64
}

type chart struct {
	Title  string
	XLabel []string
	Series []chartSeries
	Bars   bool
}

const (
	chartW    = 760
	chartH    = 380
	marginL   = 70
	marginR   = 20
	marginTop = 40
	marginBot = 50
)

// dataURI wraps rendered SVG for use in an img src attribute.
func dataURI(svg string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

// render draws the chart: axes, gridlines, one polyline or bar group per
// series, and a legend row under the plot.
func (c chart) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="sans-serif">`, chartW, chartH)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white"/>`, chartW, chartH)
	fmt.Fprintf(&b, `<text x="%d" y="24" font-size="15" font-weight="bold">%s</text>`, marginL, escapeXML(c.Title))

	lo, hi := c.valueRange()
	plotW := chartW - marginL - marginR
	plotH := chartH - marginTop - marginBot
	n := c.pointCount()

	xPos := func(i int) float64 {
		if n <= 1 {
			return float64(marginL) + float64(plotW)/2
		}
		return float64(marginL) + float64(i)/float64(n-1)*float64(plotW)
	}
	yPos := func(v float64) float64 {
		if hi == lo {
			return float64(marginTop) + float64(plotH)/2
		}
		return float64(marginTop) + (1-(v-lo)/(hi-lo))*float64(plotH)
	}

	// Horizontal gridlines with axis labels.
	for tick := 0; tick <= 4; tick++ {
		v := lo + (hi-lo)*float64(tick)/4
		y := yPos(v)
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#ddd"/>`, marginL, y, chartW-marginR, y)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" font-size="11" text-anchor="end" fill="#555">%s</text>`, marginL-6, y+4, formatTick(v))
	}

	// X labels, thinned when crowded.
	stride := 1
	if n > 16 {
		stride = n / 16
	}
	for i := 0; i < n; i += stride {
		if i >= len(c.XLabel) {
			break
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="11" text-anchor="middle" fill="#555">%s</text>`,
			xPos(i), chartH-marginBot+18, escapeXML(c.XLabel[i]))
	}

	if c.Bars {
		c.renderBars(&b, xPos, yPos, lo)
	} else {
		c.renderLines(&b, xPos, yPos)
	}

	// Legend.
	x := marginL
	for si, s := range c.Series {
		color := chartPalette[si%len(chartPalette)]
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, x, chartH-18, color)
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12">%s</text>`, x+16, chartH-8, escapeXML(s.Name))
		x += 16 + 8*len(s.Name) + 24
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func (c chart) renderLines(b *strings.Builder, xPos func(int) float64, yPos func(float64) float64) {
	for si, s := range c.Series {
		color := chartPalette[si%len(chartPalette)]
		var pts []string
		for i, v := range s.Values {
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", xPos(i), yPos(v)))
		}
		fmt.Fprintf(b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`, strings.Join(pts, " "), color)
		for i, v := range s.Values {
			fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`, xPos(i), yPos(v), color)
		}
	}
}

func (c chart) renderBars(b *strings.Builder, xPos func(int) float64, yPos func(float64) float64, lo float64) {
	n := c.pointCount()
	if n == 0 {
		return
	}
	group := float64(chartW-marginL-marginR) / float64(n)
	bar := group * 0.8 / float64(len(c.Series))
	baseY := yPos(math.Max(lo, 0))
	for si, s := range c.Series {
		color := chartPalette[si%len(chartPalette)]
		for i, v := range s.Values {
			x := xPos(i) - group*0.4 + bar*float64(si)
			y := yPos(v)
			h := baseY - y
			if h < 0 {
				y, h = baseY, -h
			}
			fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`, x, y, bar, h, color)
		}
	}
}

func (c chart) pointCount() int {
	n := len(c.XLabel)
	for _, s := range c.Series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}
	return n
}

func (c chart) valueRange() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, v := range s.Values {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if lo > 0 {
		lo = 0
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case av >= 1e3:
		return fmt.Sprintf("%.0fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
