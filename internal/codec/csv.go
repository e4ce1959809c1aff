package codec

import (
	"encoding/csv"
	"fmt"
	"io"

	"poetrydesk/internal/domain"
)

// CSVCodec exports a table as CSV with a header line
type CSVCodec struct{}

// NewCSVCodec creates a new CSV codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return "csv"
}

// Export writes the column names followed by every row
func (c *CSVCodec) Export(table *domain.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
