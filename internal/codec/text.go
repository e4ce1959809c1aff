package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"poetrydesk/internal/domain"
)

// TextCodec renders a table for the terminal
type TextCodec struct {
	Empty string // shown instead of a table with no rows
}

// NewTextCodec creates a new text codec
func NewTextCodec() *TextCodec {
	return &TextCodec{Empty: "(no rows)"}
}

// Format returns the codec format identifier
func (c *TextCodec) Format() string {
	return "text"
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Export draws a bordered table with humanized column headers
func (c *TextCodec) Export(tbl *domain.Table, w io.Writer) error {
	if tbl.Len() == 0 {
		_, err := fmt.Fprintln(w, c.Empty)
		return err
	}

	headers := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		headers[i] = HumanizeColumn(col)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(tbl.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// HumanizeColumn turns a column name like date_of_birth into "Date Of Birth"
func HumanizeColumn(col string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(col, "_", " "))
}
