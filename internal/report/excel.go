package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"lithuania-bess/internal/revenue"
)

// BuildXLSX renders the full analysis workbook: assumptions, historical
// revenue estimates, the forward projection with a chart, saturation
// scenarios, price diagnostics, and the known project pipeline.
func BuildXLSX(d Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	eurStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0

	if err := writeSummarySheet(f, d, titleStyle, headerStyle); err != nil {
		return nil, err
	}
	if err := writeRevenueSheet(f, "Revenue Estimates", d.Historical, d.HistoricalYears, d, headerStyle, eurStyle); err != nil {
		return nil, err
	}
	if err := writeRevenueSheet(f, "Projection", d.Projected, d.ProjectionYears(), d, headerStyle, eurStyle); err != nil {
		return nil, err
	}
	if err := addProjectionChart(f, d); err != nil {
		return nil, err
	}
	if err := writeSaturationSheet(f, d, headerStyle); err != nil {
		return nil, err
	}
	if err := writeStatsSheet(f, d, headerStyle); err != nil {
		return nil, err
	}
	if err := writeProjectsSheet(f, d, headerStyle); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX renders the workbook to a file.
func WriteXLSX(d Data, path string) error {
	raw, err := BuildXLSX(d)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

func writeSummarySheet(f *excelize.File, d Data, titleStyle, headerStyle int) error {
	sheet := "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "B", 24)

	_ = f.SetCellValue(sheet, "A1", "Lithuania BESS Revenue Analysis")
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	_ = f.SetCellValue(sheet, "A2", "Generated")
	_ = f.SetCellValue(sheet, "B2", d.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))

	a := d.Config.Assumptions
	rows := []struct {
		label string
		value interface{}
	}{
		{"Round-trip efficiency", a.RoundTripEfficiency},
		{"Capture rate", a.CaptureRate},
		{"Durations analyzed (h)", fmt.Sprint(a.Durations)},
		{"Balancing market size (MW)", d.MarketSize.BalancingMW},
		{"  of which aFRR (MW)", d.MarketSize.AFRRMW},
		{"  of which mFRR (MW)", d.MarketSize.MFRRMW},
		{"  of which FCR, estimated (MW)", d.MarketSize.FCRMW},
		{"System peak load (MW)", d.MarketSize.PeakLoadMW},
		{"Announced pipeline (MW)", d.MarketSize.PipelineMW},
		{"Announced pipeline (MWh)", d.MarketSize.PipelineMWh},
	}
	_ = f.SetCellValue(sheet, "A4", "Assumption")
	_ = f.SetCellValue(sheet, "B4", "Value")
	_ = f.SetCellStyle(sheet, "A4", "B4", headerStyle)
	for i, r := range rows {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", 5+i), r.label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", 5+i), r.value)
	}

	// Time allocation for the stacked estimate.
	base := 6 + len(rows)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base), "Market")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base), "Time allocation")
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", base), fmt.Sprintf("B%d", base), headerStyle)
	alloc := []struct {
		name  string
		share float64
	}{
		{"aFRR", a.Allocation.AFRR},
		{"FCR", a.Allocation.FCR},
		{"mFRR", a.Allocation.MFRR},
		{"Day-ahead arbitrage", a.Allocation.DayAhead},
		{"Imbalance", a.Allocation.Imbalance},
	}
	for i, r := range alloc {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base+1+i), r.name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+1+i), r.share)
	}
	return nil
}

// writeRevenueSheet lays out a table per duration: markets as rows, years
// as columns, EUR/MW/year values.
func writeRevenueSheet(f *excelize.File, sheet string, table revenue.Table, years []int, d Data, headerStyle, eurStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "A", 26)

	row := 1
	for _, dur := range d.Config.Assumptions.Durations {
		title := fmt.Sprintf("%dh battery, EUR/MW/year", dur)
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), title)
		row++

		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Market")
		for j, year := range years {
			cell, _ := excelize.CoordinatesToCellName(2+j, row)
			_ = f.SetCellValue(sheet, cell, year)
		}
		endHeader, _ := excelize.CoordinatesToCellName(1+len(years), row)
		_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), endHeader, headerStyle)
		row++

		for _, market := range revenue.Markets {
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(market))
			for j, year := range years {
				cell, _ := excelize.CoordinatesToCellName(2+j, row)
				_ = f.SetCellValue(sheet, cell, table.Get(year, market, dur))
				_ = f.SetCellStyle(sheet, cell, cell, eurStyle)
			}
			row++
		}
		row += 2
	}
	return nil
}

// addProjectionChart drops a line chart of combined revenue per duration
// next to the projection tables.
func addProjectionChart(f *excelize.File, d Data) error {
	sheet := "Projection"
	years := d.ProjectionYears()
	if len(years) == 0 {
		return nil
	}

	// Chart source data in a block clear of the tables.
	base := 40
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base), "Year")
	for j, year := range years {
		cell, _ := excelize.CoordinatesToCellName(2+j, base)
		_ = f.SetCellValue(sheet, cell, year)
	}
	var series []excelize.ChartSeries
	for i, dur := range d.Config.Assumptions.Durations {
		r := base + 1 + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("%dh combined", dur))
		for j, year := range years {
			cell, _ := excelize.CoordinatesToCellName(2+j, r)
			_ = f.SetCellValue(sheet, cell, d.Projected.Get(year, revenue.MarketCombined, dur))
		}
		valEnd, _ := excelize.CoordinatesToCellName(1+len(years), r)
		catEnd, _ := excelize.CoordinatesToCellName(1+len(years), base)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!A%d", sheet, r),
			Categories: fmt.Sprintf("%s!B%d:%s", sheet, base, catEnd),
			Values:     fmt.Sprintf("%s!B%d:%s", sheet, r, valEnd),
		})
	}
	return f.AddChart(sheet, fmt.Sprintf("A%d", base+len(d.Config.Assumptions.Durations)+3), &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "Multi-market revenue projection, EUR/MW/year"}},
	})
}

func writeSaturationSheet(f *excelize.File, d Data, headerStyle int) error {
	sheet := "Saturation Scenarios"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"Scenario", "Year", "Installed MW", "Balancing ratio", "Peak load share"}
	for j, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(1+j, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	end, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", end, headerStyle)

	for i, pt := range d.Saturation {
		r := 2 + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), pt.Scenario)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), pt.Year)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", r), pt.InstalledMW)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", r), pt.BalancingRatio)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", r), pt.PeakLoadShare)
	}
	return nil
}

func writeStatsSheet(f *excelize.File, d Data, headerStyle int) error {
	sheet := "Price Stats"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"Year", "Observations", "Mean", "Min", "Max", "P05", "P95", "P95-P05 spread", "Mean daily spread", "Negative hours"}
	for j, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(1+j, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	end, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", end, headerStyle)

	for i, s := range d.Stats {
		r := 2 + i
		vals := []interface{}{s.Year, s.Count, s.Mean, s.Min, s.Max, s.P05, s.P95, s.SpreadP95P05, s.MeanDailySpread, s.NegativeHours}
		for j, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(1+j, r)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Oracle dispatch upper bound as a cross-check block.
	if len(d.Oracle) > 0 {
		base := 4 + len(d.Stats)
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base), fmt.Sprintf("Perfect-foresight dispatch bound, %d (EUR/MW)", d.OracleYear))
		_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", base), fmt.Sprintf("A%d", base), headerStyle)
		for i, dur := range d.Config.Assumptions.Durations {
			r := base + 1 + i
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("%dh battery", dur))
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), d.Oracle[dur])
		}
	}
	return nil
}

func writeProjectsSheet(f *excelize.File, d Data, headerStyle int) error {
	sheet := "Known Projects"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "G", "G", 44)
	headers := []string{"Developer", "Power MW", "Energy MWh", "Location", "Status", "Year", "Source"}
	for j, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(1+j, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	end, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", end, headerStyle)

	var totalMW, totalMWh float64
	for i, p := range d.Projects {
		r := 2 + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), p.Developer)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), p.PowerMW)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", r), p.EnergyMWh)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", r), p.Location)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", r), p.Status)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", r), p.Year)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", r), p.Source)
		totalMW += p.PowerMW
		totalMWh += p.EnergyMWh
	}
	r := 2 + len(d.Projects)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), totalMW)
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", r), totalMWh)
	return nil
}
