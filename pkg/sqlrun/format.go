package sqlrun

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
)

// Supported output formats.
const (
	FormatTable      Format = "table"
	FormatJSON       Format = "json"
	FormatPrettyJSON Format = "pretty-json"
	FormatCSV        Format = "csv"
	FormatScript     Format = "script"
	FormatRaw        Format = "raw"
)

type (
	// Format names a result renderer.
	Format string

	// Options alter rendering.
	Options struct {
		// Headers emits the column names in table, csv and raw output
		Headers bool
	}
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatPrettyJSON, FormatCSV, FormatScript, FormatRaw}
}

// Render writes res to w in format f. Unknown formats render as a table.
func Render(w io.Writer, res *Result, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return renderJSON(w, res, "")
	case FormatPrettyJSON:
		return renderJSON(w, res, "    ")
	case FormatCSV:
		return renderCSV(w, res, opts)
	case FormatScript:
		return renderScript(w, res)
	case FormatRaw:
		return renderRaw(w, res, opts)
	default:
		return renderTable(w, res, opts)
	}
}

func renderJSON(w io.Writer, res *Result, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)

	rows := res.Rows
	if rows == nil {
		rows = []*Row{}
	}

	return errors.Wrap(enc.Encode(rows), "failed to encode rows")
}

func renderCSV(w io.Writer, res *Result, opts Options) error {
	cw := csv.NewWriter(w)

	if opts.Headers {
		if err := cw.Write(res.Headers); err != nil {
			return errors.Wrap(err, "failed to write csv headers")
		}
	}

	for _, row := range res.Rows {
		if err := cw.Write(cells(row, res.Headers)); err != nil {
			return errors.Wrap(err, "failed to write csv record")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush csv")
}

func renderScript(w io.Writer, res *Result) error {
	for _, row := range res.Rows {
		fields := make([]string, 0, len(row.Keys()))
		for _, key := range row.Keys() {
			v, _ := row.Get(key)
			fields = append(fields, key+"="+Text(v))
		}

		if _, err := fmt.Fprintln(w, strings.Join(fields, "|")); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
	}

	return nil
}

func renderRaw(w io.Writer, res *Result, opts Options) error {
	if opts.Headers {
		if _, err := fmt.Fprintln(w, strings.Join(res.Headers, "\t")); err != nil {
			return errors.Wrap(err, "failed to write headers")
		}
	}

	for _, row := range res.Rows {
		if _, err := fmt.Fprintln(w, strings.Join(cells(row, res.Headers), "\t")); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
	}

	return nil
}

func renderTable(w io.Writer, res *Result, opts Options) error {
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		BorderRow(false).
		StyleFunc(func(int, int) lipgloss.Style { return cell })

	if opts.Headers {
		t.Headers(res.Headers...)
	}

	for _, row := range res.Rows {
		t.Row(cells(row, res.Headers)...)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return errors.Wrap(err, "failed to write table")
}

// cells returns the row's values in header order. Missing keys are empty.
func cells(row *Row, headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		if v, ok := row.Get(h); ok {
			out[i] = Text(v)
		}
	}

	return out
}

// Text renders a scalar for the text formats.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
