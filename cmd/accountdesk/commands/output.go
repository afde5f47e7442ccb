package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// printer writes command results, in color when the terminal allows it
type printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

func newPrinter(out, err io.Writer, useColors bool) *printer {
	return &printer{out: out, err: err, useColors: useColors}
}

// Success prints a success message
func (p *printer) Success(format string, args ...any) {
	p.line(p.out, color.FgGreen, "[OK]", format, args...)
}

// Warning prints a warning to stderr
func (p *printer) Warning(format string, args ...any) {
	p.line(p.err, color.FgYellow, "[WARN]", format, args...)
}

// Info prints an informational message
func (p *printer) Info(format string, args ...any) {
	p.line(p.out, color.FgCyan, "[INFO]", format, args...)
}

func (p *printer) line(w io.Writer, attr color.Attribute, tag, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.useColors {
		color.New(attr).Fprintln(w, msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", tag, msg)
}

// Table renders rows under headers
func (p *printer) Table(headers []string, rows [][]string) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// Fields renders label/value pairs as a two column table
func (p *printer) Fields(pairs [][2]string) error {
	rows := make([][]string, 0, len(pairs))
	for _, kv := range pairs {
		rows = append(rows, []string{kv[0], kv[1]})
	}
	return p.Table([]string{"field", "value"}, rows)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
