package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/cvdesk/internal/pagination"
	"github.com/rshade/cvdesk/internal/record"
	"github.com/rshade/cvdesk/internal/view"
)

// Output formats accepted by --output.
const (
	outputFormatTable  = "table"
	outputFormatJSON   = "json"
	outputFormatNDJSON = "ndjson"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

func isValidOutputFormat(f string) bool {
	switch f {
	case outputFormatTable, outputFormatJSON, outputFormatNDJSON:
		return true
	default:
		return false
	}
}

// renderView writes v in the given format.
func renderView(w io.Writer, format string, v view.View) error {
	switch format {
	case outputFormatJSON:
		return renderJSON(w, v)
	case outputFormatNDJSON:
		return renderNDJSON(w, v)
	default:
		return renderTable(w, v)
	}
}

var tableHeaders = map[record.Field]string{ //nolint:gochecknoglobals // Static lookup.
	record.FieldID:              "ID",
	record.FieldName:            "NAME",
	record.FieldDateReceived:    "RECEIVED",
	record.FieldPositionApplied: "POSITION",
	record.FieldScore:           "SCORE",
	record.FieldStatus:          "STATUS",
}

func renderTable(w io.Writer, v view.View) error {
	p := message.NewPrinter(language.English)

	if v.Empty() {
		_, err := fmt.Fprintln(w, "No CVs.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	fields := record.Fields()

	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = tableHeaders[f]
		if v.Sort.Active() && v.Sort.Field == f {
			headers[i] += sortMarker(v.Sort.Direction)
		}
	}
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}

	for _, r := range v.Records {
		cells := make([]string, len(fields))
		for i, f := range fields {
			if f == record.FieldScore {
				cells[i] = p.Sprintf("%.1f", r.Score)
				continue
			}
			cells[i] = f.Value(r)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := p.Fprintf(w, "\nPage %d of %d (%d CVs)\n",
		v.Meta.CurrentPage, max(v.Meta.TotalPages, 1), v.Meta.TotalItems)
	return err
}

func sortMarker(d pagination.Direction) string {
	if d == pagination.DirectionDesc {
		return " ▼"
	}
	return " ▲"
}

// listOutput is the JSON document written by --output json.
type listOutput struct {
	Records []record.Record `json:"records"`
	Sort    string          `json:"sort,omitempty"`
	Meta    pagination.Meta `json:"meta"`
	Error   string          `json:"error,omitempty"`
}

func renderJSON(w io.Writer, v view.View) error {
	out := listOutput{
		Records: v.Records,
		Sort:    v.Sort.String(),
		Meta:    v.Meta,
		Error:   v.Err.String(),
	}
	if out.Records == nil {
		out.Records = []record.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// renderNDJSON writes one record per line.
func renderNDJSON(w io.Writer, v view.View) error {
	enc := json.NewEncoder(w)
	for _, r := range v.Records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
