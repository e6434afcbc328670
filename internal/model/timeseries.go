package model

import (
	"strings"
	"time"
)

// DateLayout is how record dates are rendered in tables and CSV files.
const DateLayout = "2006-01-02"

// Record is one calendar day of cumulative counters for a country.
type Record struct {
	Date      time.Time
	Confirmed int64
	Deaths    int64
	Recovered int64
	Active    int64 // Confirmed - Deaths - Recovered, not clamped
}

// Dataset is the full history of one country, sorted ascending by date.
type Dataset struct {
	Country   string
	Records   []Record
	FetchedAt time.Time
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Empty reports whether the dataset holds no records.
func (d *Dataset) Empty() bool { return d.Len() == 0 }

// Tail returns the last n records. The returned slice shares the backing array.
func (d *Dataset) Tail(n int) []Record {
	if d == nil || n <= 0 {
		return nil
	}
	if n >= len(d.Records) {
		return d.Records
	}
	return d.Records[len(d.Records)-n:]
}

// Latest returns the most recent record.
func (d *Dataset) Latest() (Record, bool) {
	if d.Empty() {
		return Record{}, false
	}
	return d.Records[len(d.Records)-1], true
}

// FileStem is the lowercased country used for exported file names.
func FileStem(country string) string {
	return strings.ToLower(country)
}

// DisplayName upper-cases the first letter of country and lower-cases the rest.
func DisplayName(country string) string {
	if country == "" {
		return ""
	}
	r := []rune(strings.ToLower(country))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
