// Package ingest reads raw sensor readings from delimited text
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aouyang1/go-aqi-forecaster/timedataset"
	"github.com/klauspost/compress/gzip"
)

const (
	DefaultTimestampColumn = "datetime"
	DefaultValueColumn     = "main_aqi"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrNoHeader      = errors.New("no header row")
)

// Options names the columns holding the timestamp and pollutant index. Any other
// column is ignored.
type Options struct {
	TimestampColumn string
	ValueColumn     string
	Comma           rune
}

func NewDefaultOptions() *Options {
	return &Options{
		TimestampColumn: DefaultTimestampColumn,
		ValueColumn:     DefaultValueColumn,
		Comma:           ',',
	}
}

// ReadCSV reads every row of r into a raw reading. Rows too short to hold both
// columns are skipped.
func ReadCSV(r io.Reader, opt *Options) ([]timedataset.RawReading, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}

	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("unable to read header, %w", err)
	}

	tsIdx, valIdx := -1, -1
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		switch {
		case strings.EqualFold(col, opt.TimestampColumn):
			tsIdx = i
		case strings.EqualFold(col, opt.ValueColumn):
			valIdx = i
		}
	}
	if tsIdx < 0 {
		return nil, fmt.Errorf("%q, %w", opt.TimestampColumn, ErrMissingColumn)
	}
	if valIdx < 0 {
		return nil, fmt.Errorf("%q, %w", opt.ValueColumn, ErrMissingColumn)
	}
	minFields := max(tsIdx, valIdx) + 1

	var readings []timedataset.RawReading
	var skipped int
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("unable to read row, %w", err)
		}
		if len(record) < minFields {
			skipped++
			continue
		}
		readings = append(readings, timedataset.RawReading{
			Timestamp: record[tsIdx],
			Value:     record[valIdx],
		})
	}

	slog.Debug("read raw readings", "rows", len(readings), "skipped", skipped)
	return readings, nil
}

// ReadFile reads the readings of a delimited text file. Files ending in .gz are
// decompressed.
func ReadFile(path string, opt *Options) ([]timedataset.RawReading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s, %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("unable to decompress %s, %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return ReadCSV(r, opt)
}
