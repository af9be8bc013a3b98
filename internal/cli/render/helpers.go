package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerStyle  = color.New(color.Bold, color.FgHiWhite)
	addressStyle = color.New(color.FgWhite)
	faintStyle   = color.New(color.Faint)
	skippedStyle = color.New(color.FgYellow)
	okStyle      = color.New(color.FgGreen)
	failStyle    = color.New(color.FgRed)
)

var titleCaser = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// JSON writes v as indented JSON
func JSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a borderless left-aligned table writer
func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateRows = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Box = table.BoxStyle{PaddingRight: "   "}
	t.Style().Format.Header = text.FormatUpper

	configs := make([]table.ColumnConfig, len(header))
	for i := range header {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
	}
	t.SetColumnConfigs(configs)
	t.AppendHeader(header)
	return t
}

func renderTable(out io.Writer, t table.Writer) {
	fmt.Fprintln(out, t.Render())
}

func orDash(s string) string {
	if s == "" {
		return faintStyle.Sprint("-")
	}
	return s
}
