package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/cvdesk/internal/config"
	"github.com/rshade/cvdesk/internal/logging"
	"github.com/rshade/cvdesk/internal/source"
	"github.com/rshade/cvdesk/internal/tui"
	"github.com/rshade/cvdesk/internal/view"
)

// ErrWatchNeedsFile is returned by browse --watch without a file source.
var ErrWatchNeedsFile = errors.New("--watch requires a file source (--file or source.file)")

type browseOptions struct {
	sort     string
	pageSize int
	watch    bool
	src      sourceFlags
}

// NewBrowseCmd creates the browse command, which opens the interactive table.
func NewBrowseCmd() *cobra.Command {
	var opts browseOptions

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse CVs in an interactive table",
		Long: `Opens a terminal table over the CV list.

Keys: ←/h →/l change page, s cycles the sort field, d flips the direction,
r refetches, x hides the error banner, q quits.

When stdout is not a terminal the first page is printed as with 'cvdesk list'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tui.DetectOutputMode(false, false, false) != tui.OutputModeInteractive {
				logger.Debug().Ctx(cmd.Context()).Msg("not a terminal, printing first page")
				return runList(cmd, listOptions{
					sort:     opts.sort,
					page:     1,
					pageSize: opts.pageSize,
					output:   outputFormatTable,
					src:      opts.src,
				})
			}
			return runBrowse(cmd, opts)
		},
	}

	addSelectionFlags(cmd, &opts.sort, &opts.pageSize, &opts.src)
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "refetch when the --file source changes")

	return cmd
}

func runBrowse(cmd *cobra.Command, opts browseOptions) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg := *configFromContext(ctx)
	opts.src.apply(&cfg)

	sortSpec, pageSpec, err := resolveSelection(cmd, &cfg, opts.sort, opts.pageSize, 1)
	if err != nil {
		return &ExitError{Code: ExitCodeInvalidArgs, Err: err}
	}

	ctrl, err := newBrowseController(ctx, &cfg, opts.watch || cfg.Source.Watch)
	if err != nil {
		return err
	}
	defer ctrl.Disconnect()

	details, err := buildDetailFetcher(&cfg)
	if err != nil {
		return err
	}

	model, err := tui.NewTableModel(ctx, ctrl, sortSpec, pageSpec, tui.WithDetailFetcher(details))
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if _, runErr := p.Run(); runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
			return fmt.Errorf("failed to run interactive TUI: %w", runErr)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		p.Quit()
		return nil
	})

	return g.Wait()
}

// newBrowseController builds the controller for browse, adding the file
// watcher as a refresh trigger when watch is set.
func newBrowseController(ctx context.Context, cfg *config.Config, watch bool) (*view.Controller, error) {
	fetch, label, err := buildFetcher(cfg)
	if err != nil {
		return nil, &ExitError{Code: ExitCodeInvalidArgs, Err: err}
	}

	l := logging.ComponentLogger(*logging.FromContext(ctx), "view")
	opts := controllerOptions(cfg, l)

	if watch {
		if cfg.Source.File == "" {
			return nil, &ExitError{Code: ExitCodeInvalidArgs, Err: ErrWatchNeedsFile}
		}
		ticks, watchErr := source.WatchFile(ctx, cfg.Source.File, source.DefaultDebounce)
		if watchErr != nil {
			return nil, watchErr
		}
		opts = append(opts, view.WithRefreshTrigger(ticks))
	}

	logger.Debug().Ctx(ctx).Str("source", label).Bool("watch", watch).Msg("starting browser")
	return view.New(fetch, opts...), nil
}
