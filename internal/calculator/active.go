package calculator

import "covidstat/internal/model"

// ActiveCases returns confirmed minus deaths minus recovered. Upstream revisions can make
// the result negative; it is returned unchanged.
func ActiveCases(confirmed, deaths, recovered int64) int64 {
	return confirmed - deaths - recovered
}

// FillActive sets Active on every record in place.
func FillActive(records []model.Record) {
	for i := range records {
		r := &records[i]
		r.Active = ActiveCases(r.Confirmed, r.Deaths, r.Recovered)
	}
}
