// Package export writes and reads the Date,Confirmed,Deaths,Recovered,Active CSV format.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"covidstat/internal/model"
)

// Header is the CSV column order.
var Header = []string{"Date", "Confirmed", "Deaths", "Recovered", "Active"}

// FileName returns the export file name for country.
func FileName(country string) string {
	return model.FileStem(country) + "_covid_data.csv"
}

// Write encodes records as CSV with a header row.
func Write(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{
			r.Date.Format(model.DateLayout),
			strconv.FormatInt(r.Confirmed, 10),
			strconv.FormatInt(r.Deaths, 10),
			strconv.FormatInt(r.Recovered, 10),
			strconv.FormatInt(r.Active, 10),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the dataset to dir/FileName(country), replacing any existing file.
// It returns the path written.
func WriteFile(dir string, ds *model.Dataset) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(ds.Country))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Write(f, ds.Records); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Read decodes a CSV produced by Write. Active is read back as stored.
func Read(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv")
		}
		return nil, err
	}
	for i, col := range Header {
		if head[i] != col {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i+1, head[i], col)
		}
	}

	var records []model.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadFile reads a CSV export from disk.
func ReadFile(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func parseRow(row []string) (model.Record, error) {
	date, err := time.Parse(model.DateLayout, row[0])
	if err != nil {
		return model.Record{}, err
	}
	var nums [4]int64
	for i := range nums {
		n, err := strconv.ParseInt(row[i+1], 10, 64)
		if err != nil {
			return model.Record{}, fmt.Errorf("%s: %w", Header[i+1], err)
		}
		nums[i] = n
	}
	return model.Record{
		Date:      date,
		Confirmed: nums[0],
		Deaths:    nums[1],
		Recovered: nums[2],
		Active:    nums[3],
	}, nil
}
