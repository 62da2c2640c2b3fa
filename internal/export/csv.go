// Package export serializes whole collections into downloadable
// delimited text. Every field is double-quoted, embedded quotes are
// doubled, fields are comma-separated and rows are joined with "\n".
// encoding/csv is not used because it only quotes fields that need it,
// which would change the produced files.
package export

import (
	"io"
	"strings"
)

// quote wraps a single field, doubling any embedded quote characters.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// WriteRows writes the header row followed by every data row. An empty
// rows slice yields a file containing only the header. The whole payload
// is assembled in memory; collections are assumed to fit.
func WriteRows(w io.Writer, header []string, rows [][]string) error {
	var b strings.Builder
	writeRow(&b, header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, row []string) {
	for i, field := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(field))
	}
}
