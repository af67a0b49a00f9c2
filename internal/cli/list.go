package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/cvdesk/internal/config"
	"github.com/rshade/cvdesk/internal/logging"
	"github.com/rshade/cvdesk/internal/pagination"
	"github.com/rshade/cvdesk/internal/view"
)

type listOptions struct {
	sort     string
	page     int
	pageSize int
	output   string
	src      sourceFlags
}

// NewListCmd creates the list command, which prints one page of CVs.
func NewListCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of CVs",
		Long: `Fetches the CV list once and prints the requested page.

Sorting is applied to the whole list before the page is cut, so --page 2
always continues where --page 1 stopped. Exits with status 2 when the CVs
could not be fetched.`,
		Example: `  cvdesk list
  cvdesk list --sort name --page 3
  cvdesk list --sort score:desc --output ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	addSelectionFlags(cmd, &opts.sort, &opts.pageSize, &opts.src)
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number, starting at 1")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputFormatTable, "output format: table, json or ndjson")

	return cmd
}

// addSelectionFlags registers the flags shared by list and browse.
func addSelectionFlags(cmd *cobra.Command, sortExpr *string, pageSize *int, src *sourceFlags) {
	cmd.Flags().StringVar(sortExpr, "sort", "",
		"sort expression field[:asc|desc]; fields: id, name, date_received, position_applied, score, status")
	cmd.Flags().IntVar(pageSize, "page-size", pagination.DefaultPageSize, "rows per page (1-1000)")
	cmd.Flags().StringVar(&src.file, "file", "", "read CVs from a JSON file instead of the backend")
	cmd.Flags().StringVar(&src.url, "url", "", "backend base URL (GET {url}/cv)")
}

func runList(cmd *cobra.Command, opts listOptions) error {
	ctx := cmd.Context()
	cfg := *configFromContext(ctx)
	opts.src.apply(&cfg)

	if !isValidOutputFormat(opts.output) {
		return &ExitError{Code: ExitCodeInvalidArgs, Err: fmt.Errorf("unsupported output format: %s", opts.output)}
	}

	sortSpec, pageSpec, err := resolveSelection(cmd, &cfg, opts.sort, opts.pageSize, opts.page)
	if err != nil {
		return &ExitError{Code: ExitCodeInvalidArgs, Err: err}
	}

	v, err := fetchOnce(ctx, &cfg, sortSpec, pageSpec)
	if err != nil {
		return err
	}

	if v.Err != nil {
		logger.Warn().Ctx(ctx).Err(v.Err.Cause).Msg("list fetch failed")
		if opts.output == outputFormatJSON {
			if renderErr := renderView(cmd.OutOrStdout(), opts.output, v); renderErr != nil {
				return renderErr
			}
		}
		cmd.PrintErrln(v.Err.Message)
		return &ExitError{Code: ExitCodeFetchFailed, Err: fmt.Errorf("%w: %w", ErrFetchFailed, v.Err.Cause)}
	}

	return renderView(cmd.OutOrStdout(), opts.output, v)
}

// resolveSelection combines flags with the view section of the config. Flags
// win only when set explicitly. An unknown sort field is reported and ignored.
func resolveSelection(
	cmd *cobra.Command,
	cfg *config.Config,
	sortFlag string,
	pageSizeFlag, pageNumber int,
) (pagination.SortSpec, pagination.PageSpec, error) {
	sortExpr := cfg.View.Sort
	if cmd.Flags().Changed("sort") {
		sortExpr = sortFlag
	}
	sortSpec, err := pagination.ParseSort(sortExpr)
	if errors.Is(err, pagination.ErrUnknownSortField) {
		cmd.PrintErrf("Warning: %v; showing CVs unsorted\n", err)
	} else if err != nil {
		return pagination.SortSpec{}, pagination.PageSpec{}, err
	}

	size := cfg.View.PageSize
	if cmd.Flags().Changed("page-size") || size == 0 {
		size = pageSizeFlag
	}
	pageSpec, err := pagination.FromPageNumber(pageNumber, size)
	if err != nil {
		return pagination.SortSpec{}, pagination.PageSpec{}, err
	}
	return sortSpec, pageSpec, nil
}

// fetchOnce runs a controller with fixed bindings until its first view.
func fetchOnce(
	ctx context.Context,
	cfg *config.Config,
	sortSpec pagination.SortSpec,
	pageSpec pagination.PageSpec,
) (view.View, error) {
	fetch, label, err := buildFetcher(cfg)
	if err != nil {
		return view.View{}, &ExitError{Code: ExitCodeInvalidArgs, Err: err}
	}

	l := logging.ComponentLogger(*logging.FromContext(ctx), "view")
	ctrl := view.New(fetch, controllerOptions(cfg, l)...)
	if err = ctrl.BindSort(sortSpec, nil); err != nil {
		return view.View{}, err
	}
	if err = ctrl.BindPage(pageSpec, nil); err != nil {
		return view.View{}, err
	}

	views, err := ctrl.Connect(ctx)
	if err != nil {
		return view.View{}, err
	}
	defer ctrl.Disconnect()

	logger.Debug().Ctx(ctx).Str("source", label).Str("sort", sortSpec.String()).Msg("fetching CVs")

	select {
	case v, ok := <-views:
		if !ok {
			return view.View{}, fmt.Errorf("view closed before the first fetch resolved: %w", context.Cause(ctx))
		}
		return v, nil
	case <-ctx.Done():
		return view.View{}, ctx.Err()
	}
}
