package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// csvColumns is the canonical candle CSV header:
//
//	timestamp,open,high,low,close,volume
//
// Extra trailing columns are ignored.
var csvColumns = []string{"timestamp", "open", "high", "low", "close", "volume"}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// LoadCSV reads a candle CSV file into a Series. Files ending in .gz, .xz
// or .lzma are decompressed on the fly.
func LoadCSV(path string) (*Series, error) {
	rc, err := openCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	s, err := ReadCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = trimCompressionExt(filepath.Base(path))
	return s, nil
}

// ReadCSV parses candle rows from r. A header row is required; columns are
// located by name so their order does not matter. Empty rows are skipped.
func ReadCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptySeries
	}
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var candles []Candle
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		c, err := parseCandleRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		candles = append(candles, c)
	}

	return NewSeries("csv", candles)
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "time" || name == "date" {
			name = "timestamp"
		}
		idx[name] = i
	}
	for _, col := range csvColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", col, header)
		}
	}
	return idx, nil
}

func parseCandleRow(row []string, idx map[string]int) (Candle, error) {
	var c Candle

	get := func(col string) (string, error) {
		i := idx[col]
		if i >= len(row) {
			return "", fmt.Errorf("short row: missing %s", col)
		}
		return strings.TrimSpace(row[i]), nil
	}

	ts, err := get("timestamp")
	if err != nil {
		return c, err
	}
	if c.Time, err = parseTime(ts); err != nil {
		return c, err
	}

	fields := []struct {
		col string
		dst *float64
	}{
		{"open", &c.Open},
		{"high", &c.High},
		{"low", &c.Low},
		{"close", &c.Close},
		{"volume", &c.Volume},
	}
	for _, fld := range fields {
		s, err := get(fld.col)
		if err != nil {
			return c, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return c, fmt.Errorf("bad %s %q: %w", fld.col, s, err)
		}
		*fld.dst = v
	}
	return c, nil
}

// parseTime accepts the layouts pandas writes plus unix milliseconds.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}
