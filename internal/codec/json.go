package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"poetrydesk/internal/domain"
)

// JSONCodec exports a table as an array of column -> value objects
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export writes the table rows as indented JSON
func (c *JSONCodec) Export(table *domain.Table, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(table.Records()); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
