package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the table as RFC 4180 CSV with a heading row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Headings); err != nil {
		return fmt.Errorf("failed to write csv heading: %w", err)
	}

	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}

	return nil
}
