package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"lithuania-bess/internal/model"
)

// Canonical file names under the data directory. The fetch command writes
// them and every estimator reads them, so the names live in one place.
const (
	DayAheadFile  = "da_prices_LT.csv"
	ImbalanceFile = "imbalance_prices_LT.csv"
	AFRRFile      = "afrr_reserve_prices_LT.csv"
	MFRRFile      = "mfrr_reserve_prices_LT.csv"
	LoadFile      = "actual_load_LT.csv"
	GenFile       = "generation_by_type_LT.csv"
)

// FlowFile returns the file name for a crossborder flow series, e.g.
// FlowFile("SE_4", "LT") -> "flow_SE_4_to_LT.csv".
func FlowFile(from, to string) string {
	return fmt.Sprintf("flow_%s_to_%s.csv", from, to)
}

const timeLayout = time.RFC3339

// ReadSeries loads a two-column timestamp,value CSV. Malformed rows are
// skipped with a warning rather than failing the whole load: a single bad
// row in a year of 15-minute data should not block the analysis.
func ReadSeries(path string) (model.Series, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	s := make(model.Series, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		t, v, ok := parsePoint(path, row[0], row[1])
		if !ok {
			continue
		}
		s = append(s, model.Point{Time: t, Value: v})
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return s, nil
}

// WriteSeries writes a two-column timestamp,value CSV.
func WriteSeries(path, valueHeader string, s model.Series) error {
	rows := make([][]string, 0, len(s))
	for _, p := range s {
		rows = append(rows, []string{p.Time.UTC().Format(timeLayout), formatFloat(p.Value)})
	}
	return writeRows(path, []string{"timestamp", valueHeader}, rows)
}

// ReadImbalance loads a timestamp,long,short CSV.
func ReadImbalance(path string) (model.ImbalanceSeries, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	s := make(model.ImbalanceSeries, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		t, long, ok := parsePoint(path, row[0], row[1])
		if !ok {
			continue
		}
		short, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			continue
		}
		s = append(s, model.ImbalancePoint{Time: t, Long: long, Short: short})
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return s, nil
}

// WriteImbalance writes a timestamp,long,short CSV.
func WriteImbalance(path string, s model.ImbalanceSeries) error {
	rows := make([][]string, 0, len(s))
	for _, p := range s {
		rows = append(rows, []string{
			p.Time.UTC().Format(timeLayout),
			formatFloat(p.Long),
			formatFloat(p.Short),
		})
	}
	return writeRows(path, []string{"timestamp", "long_price", "short_price"}, rows)
}

// ReadReserve loads a timestamp,up_price,down_price,up_quantity,down_quantity CSV.
func ReadReserve(path string) (model.ReserveSeries, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	s := make(model.ReserveSeries, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		t, err := time.Parse(timeLayout, row[0])
		if err != nil {
			log.Warn().Str("file", filepath.Base(path)).Str("timestamp", row[0]).Msg("skipping row with bad timestamp")
			continue
		}
		vals := make([]float64, 4)
		ok := true
		for i := 0; i < 4; i++ {
			vals[i], err = strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		s = append(s, model.ReservePoint{
			Time: t, UpPrice: vals[0], DownPrice: vals[1],
			UpQuantity: vals[2], DownQuantity: vals[3],
		})
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return s, nil
}

// WriteReserve writes a reserve price/quantity CSV.
func WriteReserve(path string, s model.ReserveSeries) error {
	rows := make([][]string, 0, len(s))
	for _, p := range s {
		rows = append(rows, []string{
			p.Time.UTC().Format(timeLayout),
			formatFloat(p.UpPrice),
			formatFloat(p.DownPrice),
			formatFloat(p.UpQuantity),
			formatFloat(p.DownQuantity),
		})
	}
	return writeRows(path, []string{"timestamp", "up_price", "down_price", "up_quantity", "down_quantity"}, rows)
}

// ReadTable loads a wide CSV (timestamp plus one column per category, like
// generation by production type) into per-column series.
func ReadTable(path string) (map[string]model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%s: expected timestamp plus at least one value column", path)
	}
	out := make(map[string]model.Series, len(header)-1)
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		if len(row) != len(header) {
			continue
		}
		t, err := time.Parse(timeLayout, row[0])
		if err != nil {
			continue
		}
		for i := 1; i < len(row); i++ {
			if row[i] == "" {
				continue
			}
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				continue
			}
			out[header[i]] = append(out[header[i]], model.Point{Time: t, Value: v})
		}
	}
	return out, nil
}

// WriteTable writes a wide CSV from per-column series. Columns are emitted
// in sorted name order; rows are the union of all timestamps, with blanks
// where a column has no observation.
func WriteTable(path string, columns map[string]model.Series) error {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	byTime := make(map[int64]map[string]float64)
	for name, s := range columns {
		for _, p := range s {
			ts := p.Time.UTC().Unix()
			if byTime[ts] == nil {
				byTime[ts] = make(map[string]float64, len(names))
			}
			byTime[ts][name] = p.Value
		}
	}
	stamps := make([]int64, 0, len(byTime))
	for ts := range byTime {
		stamps = append(stamps, ts)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	rows := make([][]string, 0, len(stamps))
	for _, ts := range stamps {
		row := make([]string, 1+len(names))
		row[0] = time.Unix(ts, 0).UTC().Format(timeLayout)
		for i, name := range names {
			if v, ok := byTime[ts][name]; ok {
				row[i+1] = formatFloat(v)
			}
		}
		rows = append(rows, row)
	}
	return writeRows(path, append([]string{"timestamp"}, names...), rows)
}

func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[1:], nil // drop header
}

func writeRows(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func parsePoint(path, rawTime, rawValue string) (time.Time, float64, bool) {
	t, err := time.Parse(timeLayout, rawTime)
	if err != nil {
		log.Warn().Str("file", filepath.Base(path)).Str("timestamp", rawTime).Msg("skipping row with bad timestamp")
		return time.Time{}, 0, false
	}
	v, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		log.Warn().Str("file", filepath.Base(path)).Str("value", rawValue).Msg("skipping row with bad value")
		return time.Time{}, 0, false
	}
	return t, v, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
