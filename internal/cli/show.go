package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/cvdesk/internal/record"
	"github.com/rshade/cvdesk/internal/tui/detail"
)

type showOptions struct {
	output string
	src    sourceFlags
}

// NewShowCmd creates the show command, which prints one CV in full.
func NewShowCmd() *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one CV in full",
		Long: `Fetches a single CV (GET {url}/cv/{id}) and prints all of its sections.

With --file the CV is looked up in the file's list, which only carries the
list columns. Exits with status 2 when the CV could not be fetched.`,
		Example: `  cvdesk show 42
  cvdesk show 42 --output json
  cvdesk show 42 --file cvs.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", outputFormatTable, "output format: table or json")
	cmd.Flags().StringVar(&opts.src.file, "file", "", "read CVs from a JSON file instead of the backend")
	cmd.Flags().StringVar(&opts.src.url, "url", "", "backend base URL (GET {url}/cv/{id})")

	return cmd
}

func runShow(cmd *cobra.Command, opts showOptions, id string) error {
	ctx := cmd.Context()
	cfg := *configFromContext(ctx)
	opts.src.apply(&cfg)

	if opts.output != outputFormatTable && opts.output != outputFormatJSON {
		return &ExitError{Code: ExitCodeInvalidArgs, Err: fmt.Errorf("unsupported output format: %s", opts.output)}
	}

	fetch, err := buildDetailFetcher(&cfg)
	if err != nil {
		return &ExitError{Code: ExitCodeInvalidArgs, Err: err}
	}

	logger.Debug().Ctx(ctx).Str("cv_id", id).Msg("fetching CV")
	d, err := fetch(ctx, id)
	if err != nil {
		logger.Warn().Ctx(ctx).Err(err).Str("cv_id", id).Msg("CV fetch failed")
		cmd.PrintErrln(detail.MessageFor(err))
		return &ExitError{Code: ExitCodeFetchFailed, Err: fmt.Errorf("%w: %w", ErrFetchFailed, err)}
	}

	if opts.output == outputFormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	return renderDetails(cmd.OutOrStdout(), d)
}

// renderDetails prints d as label/value lines followed by one block per
// non-empty section.
func renderDetails(w io.Writer, d record.Details) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	fields := []struct{ label, value string }{
		{"ID", d.ID},
		{"NAME", d.FullName},
		{"POSITION", d.Position},
		{"SCORE", fmt.Sprintf("%g", d.Score)},
		{"STATUS", d.Status},
		{"BORN", d.DateOfBirth},
		{"NATIONALITY", d.Nationality},
		{"EMAIL", d.Email},
		{"PHONE", d.Phone},
		{"ADDRESS", d.Address},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", f.label, f.value); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var lines []string
	for _, e := range d.Education {
		lines = append(lines, fmt.Sprintf("%s, %s%s", e.Degree, e.Institution, dateRange(e.StartDate, e.EndDate)))
	}
	if err := writeBlock(w, "EDUCATION", lines); err != nil {
		return err
	}

	lines = lines[:0]
	for _, x := range d.WorkExperience {
		lines = append(lines, fmt.Sprintf("%s at %s%s", x.JobTitle, x.Company, dateRange(x.StartDate, x.EndDate)))
	}
	if err := writeBlock(w, "WORK EXPERIENCE", lines); err != nil {
		return err
	}

	if len(d.Skills) > 0 {
		if err := writeBlock(w, "SKILLS", []string{strings.Join(d.Skills, ", ")}); err != nil {
			return err
		}
	}

	lines = lines[:0]
	for _, c := range d.Certifications {
		lines = append(lines, strings.TrimSpace(c.Name+" "+parenthesized(c.IssuingOrganization)))
	}
	if err := writeBlock(w, "CERTIFICATIONS", lines); err != nil {
		return err
	}

	lines = lines[:0]
	for _, l := range d.Languages {
		lines = append(lines, strings.TrimSpace(l.Language+" "+l.Proficiency))
	}
	if err := writeBlock(w, "LANGUAGES", lines); err != nil {
		return err
	}

	lines = lines[:0]
	for _, m := range d.MilitaryExperience {
		line := strings.TrimSpace(m.Rank+" "+parenthesized(m.Branch)) + dateRange(m.StartDate, m.EndDate)
		for _, duty := range m.Duties {
			line += "\n    - " + duty
		}
		lines = append(lines, line)
	}
	return writeBlock(w, "MILITARY EXPERIENCE", lines)
}

func writeBlock(w io.Writer, title string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "  %s\n", l); err != nil {
			return err
		}
	}
	return nil
}

func dateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return " (" + start + " - present)"
	default:
		return " (" + start + " - " + end + ")"
	}
}

func parenthesized(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}
