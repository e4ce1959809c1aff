package codec

import (
	"fmt"
	"io"

	"poetrydesk/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec exports a table as a YAML sequence of mappings
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Export writes one mapping per row. Keys keep the table's column order,
// which plain map encoding would sort away.
func (c *YAMLCodec) Export(table *domain.Table, w io.Writer) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range table.Rows {
		item := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, col := range table.Columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			item.Content = append(item.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
			)
		}
		doc.Content = append(doc.Content, item)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
