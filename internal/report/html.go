package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"lithuania-bess/internal/revenue"
)

// BuildHTML renders the analysis as one self-contained HTML page. All
// styling is inline and every chart is an embedded SVG data URI, so the
// file can be mailed around and opened offline.
func BuildHTML(d Data) ([]byte, error) {
	page := htmlPage{
		GeneratedAt: d.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Data:        d,
	}
	page.buildTables()
	page.buildCharts()

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the report to a file.
func WriteHTML(d Data, path string) error {
	raw, err := BuildHTML(d)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

type htmlPage struct {
	GeneratedAt string
	Data        Data

	RevenueTables  []htmlRevenueTable
	StatsRows      [][]string
	SaturationRows [][]string
	ProjectRows    [][]string

	ProjectionChart template.URL
	RevenueChart    template.URL
	HourlyChart     template.URL
	MonthlyChart    template.URL
	SaturationChart template.URL
}

type htmlRevenueTable struct {
	Title  string
	Header []string
	Rows   [][]string
}

func (p *htmlPage) buildTables() {
	d := p.Data

	p.RevenueTables = []htmlRevenueTable{
		revenueTable("Historical estimates, EUR/MW/year", d.Historical, d.HistoricalYears, d),
		revenueTable("Projection, EUR/MW/year", d.Projected, d.ProjectionYears(), d),
	}

	for _, s := range d.Stats {
		p.StatsRows = append(p.StatsRows, []string{
			fmt.Sprint(s.Year),
			fmt.Sprint(s.Count),
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.Min),
			fmt.Sprintf("%.2f", s.Max),
			fmt.Sprintf("%.2f", s.P05),
			fmt.Sprintf("%.2f", s.P95),
			fmt.Sprintf("%.2f", s.SpreadP95P05),
			fmt.Sprintf("%.2f", s.MeanDailySpread),
			fmt.Sprint(s.NegativeHours),
		})
	}

	for _, pt := range d.Saturation {
		p.SaturationRows = append(p.SaturationRows, []string{
			pt.Scenario,
			fmt.Sprint(pt.Year),
			fmt.Sprintf("%.0f", pt.InstalledMW),
			fmt.Sprintf("%.2f", pt.BalancingRatio),
			fmt.Sprintf("%.0f%%", pt.PeakLoadShare*100),
		})
	}

	for _, pr := range d.Projects {
		p.ProjectRows = append(p.ProjectRows, []string{
			pr.Developer,
			fmt.Sprintf("%.1f", pr.PowerMW),
			fmt.Sprintf("%.1f", pr.EnergyMWh),
			pr.Location,
			pr.Status,
			fmt.Sprint(pr.Year),
		})
	}
}

func revenueTable(title string, table revenue.Table, years []int, d Data) htmlRevenueTable {
	t := htmlRevenueTable{Title: title, Header: []string{"Market", "Duration"}}
	for _, y := range years {
		t.Header = append(t.Header, fmt.Sprint(y))
	}
	for _, market := range revenue.Markets {
		for _, dur := range d.Config.Assumptions.Durations {
			row := []string{string(market), fmt.Sprintf("%dh", dur)}
			for _, y := range years {
				row = append(row, fmt.Sprintf("%.0f", table.Get(y, market, dur)))
			}
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

func (p *htmlPage) buildCharts() {
	d := p.Data

	// Combined revenue projection per duration.
	var projSeries []chartSeries
	var projLabels []string
	for _, y := range d.ProjectionYears() {
		projLabels = append(projLabels, fmt.Sprint(y))
	}
	for _, dur := range d.Config.Assumptions.Durations {
		s := chartSeries{Name: fmt.Sprintf("%dh", dur)}
		for _, y := range d.ProjectionYears() {
			s.Values = append(s.Values, d.Projected.Get(y, revenue.MarketCombined, dur))
		}
		projSeries = append(projSeries, s)
	}
	p.ProjectionChart = template.URL(dataURI(chart{
		Title:  "Multi-market revenue projection (EUR/MW/year)",
		XLabel: projLabels,
		Series: projSeries,
	}.render()))

	// Latest historical year: per-market bars by duration.
	if len(d.HistoricalYears) > 0 {
		year := d.HistoricalYears[len(d.HistoricalYears)-1]
		var labels []string
		for _, m := range revenue.Markets {
			labels = append(labels, string(m))
		}
		var series []chartSeries
		for _, dur := range d.Config.Assumptions.Durations {
			s := chartSeries{Name: fmt.Sprintf("%dh", dur)}
			for _, m := range revenue.Markets {
				s.Values = append(s.Values, d.Historical.Get(year, m, dur))
			}
			series = append(series, s)
		}
		p.RevenueChart = template.URL(dataURI(chart{
			Title:  fmt.Sprintf("Revenue by market, %d (EUR/MW/year)", year),
			XLabel: labels,
			Series: series,
			Bars:   true,
		}.render()))
	}

	// Hourly price profile.
	var hourLabels []string
	hourly := chartSeries{Name: "mean EUR/MWh"}
	for h := 0; h < 24; h++ {
		hourLabels = append(hourLabels, fmt.Sprintf("%02d", h))
		hourly.Values = append(hourly.Values, d.Hourly[h])
	}
	p.HourlyChart = template.URL(dataURI(chart{
		Title:  "Day-ahead price by hour of day (UTC)",
		XLabel: hourLabels,
		Series: []chartSeries{hourly},
	}.render()))

	// Monthly mean prices.
	var monthLabels []string
	monthly := chartSeries{Name: "mean EUR/MWh"}
	for _, m := range d.Monthly {
		monthLabels = append(monthLabels, fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)))
		monthly.Values = append(monthly.Values, m.Mean)
	}
	p.MonthlyChart = template.URL(dataURI(chart{
		Title:  "Monthly mean day-ahead price (EUR/MWh)",
		XLabel: monthLabels,
		Series: []chartSeries{monthly},
	}.render()))

	// Build-out scenarios against market size.
	byScenario := map[string]*chartSeries{}
	var scenLabels []string
	seenYear := map[int]bool{}
	for _, pt := range d.Saturation {
		if !seenYear[pt.Year] {
			seenYear[pt.Year] = true
			scenLabels = append(scenLabels, fmt.Sprint(pt.Year))
		}
		s := byScenario[pt.Scenario]
		if s == nil {
			s = &chartSeries{Name: pt.Scenario}
			byScenario[pt.Scenario] = s
		}
		s.Values = append(s.Values, pt.InstalledMW)
	}
	var scenSeries []chartSeries
	for _, name := range d.Config.Saturation.ScenarioNames() {
		if s := byScenario[name]; s != nil {
			scenSeries = append(scenSeries, *s)
		}
	}
	scenSeries = append(scenSeries, chartSeries{
		Name:   "balancing market",
		Values: flatLine(d.MarketSize.BalancingMW, len(scenLabels)),
	})
	p.SaturationChart = template.URL(dataURI(chart{
		Title:  "Installed BESS vs balancing market size (MW)",
		XLabel: scenLabels,
		Series: scenSeries,
	}.render()))
}

func flatLine(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Lithuania BESS Revenue Analysis</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem auto; max-width: 62rem; color: #222; }
h1 { color: #1f4e79; }
h2 { color: #1f4e79; border-bottom: 2px solid #1f4e79; padding-bottom: .2rem; margin-top: 2.5rem; }
table { border-collapse: collapse; margin: 1rem 0; font-size: .9rem; }
th { background: #1f4e79; color: white; padding: .35rem .7rem; text-align: left; }
td { border: 1px solid #ccc; padding: .3rem .7rem; }
tr:nth-child(even) td { background: #f4f7fa; }
img { max-width: 100%; margin: 1rem 0; border: 1px solid #eee; }
.meta { color: #777; font-size: .85rem; }
</style>
</head>
<body>
<h1>Lithuania BESS Revenue Analysis</h1>
<p class="meta">Generated {{.GeneratedAt}}</p>

<h2>Revenue Estimates</h2>
{{if .RevenueChart}}<img src="{{.RevenueChart}}" alt="Revenue by market">{{end}}
{{range .RevenueTables}}
<h3>{{.Title}}</h3>
<table>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
{{end}}

<h2>Forward Projection</h2>
<img src="{{.ProjectionChart}}" alt="Revenue projection">

<h2>Saturation Scenarios</h2>
<img src="{{.SaturationChart}}" alt="Saturation scenarios">
<table>
<tr><th>Scenario</th><th>Year</th><th>Installed MW</th><th>Balancing ratio</th><th>Peak load share</th></tr>
{{range .SaturationRows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>

<h2>Day-Ahead Price Diagnostics</h2>
<img src="{{.MonthlyChart}}" alt="Monthly mean prices">
<img src="{{.HourlyChart}}" alt="Hourly price profile">
<table>
<tr><th>Year</th><th>Obs</th><th>Mean</th><th>Min</th><th>Max</th><th>P05</th><th>P95</th><th>P95-P05</th><th>Daily spread</th><th>Negative hours</th></tr>
{{range .StatsRows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>

<h2>Known Projects</h2>
<table>
<tr><th>Developer</th><th>MW</th><th>MWh</th><th>Location</th><th>Status</th><th>Year</th></tr>
{{range .ProjectRows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
</body>
</html>
`))
