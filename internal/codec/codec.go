package codec

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"poetrydesk/internal/domain"
)

// Exporter writes a table in one output format
type Exporter interface {
	Export(table *domain.Table, w io.Writer) error
	Format() string
}

var exporters = map[string]func() Exporter{
	"text": func() Exporter { return NewTextCodec() },
	"json": func() Exporter { return NewJSONCodec() },
	"yaml": func() Exporter { return NewYAMLCodec() },
	"csv":  func() Exporter { return NewCSVCodec() },
}

// ForFormat returns the exporter for a format name (text, json, yaml, csv)
func ForFormat(format string) (Exporter, error) {
	newExporter, ok := exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	return newExporter(), nil
}

// Formats lists the supported format names
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
