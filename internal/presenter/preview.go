package presenter

import (
	"fmt"
	"io"

	"covidstat/internal/export"
	"covidstat/internal/model"
)

// Preview prints the last n rows of a previously exported CSV file.
func Preview(out io.Writer, path string, n int) error {
	records, err := export.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	ds := &model.Dataset{Records: records}
	fmt.Fprintln(out, RecordTable(ds.Tail(n)))
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d records in %s", ds.Len(), path)))
	return nil
}
