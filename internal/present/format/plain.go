package format

import (
	"io"
	"strings"
	"text/tabwriter"
)

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			_, _ = io.WriteString(w, "\t")
		}
		_, _ = io.WriteString(w, esc(c))
	}
	_, _ = io.WriteString(w, "\n")
}

// WritePlain writes t as aligned columns.
func WritePlain(w io.Writer, t Table, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers && len(t.Headers) > 0 {
		writeRow(tw, upper(t.Headers))
	}
	for _, r := range t.Rows {
		writeRow(tw, r)
	}
	return tw.Flush()
}

func upper(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}

// PlainStreamWriter writes rows batch by batch in the WritePlain format.
// Column widths are computed per batch.
type PlainStreamWriter struct {
	tw          *tabwriter.Writer
	headers     []string
	wroteHeader bool
}

func NewPlainStreamWriter(w io.Writer, headers []string) *PlainStreamWriter {
	return &PlainStreamWriter{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0), headers: headers}
}

func (pw *PlainStreamWriter) WriteRows(rows [][]string) error {
	if len(pw.headers) > 0 && !pw.wroteHeader {
		writeRow(pw.tw, upper(pw.headers))
		pw.wroteHeader = true
	}
	for _, r := range rows {
		writeRow(pw.tw, r)
	}
	return pw.tw.Flush()
}

func (pw *PlainStreamWriter) Close() error { return pw.tw.Flush() }
