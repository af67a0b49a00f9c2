package cli

import (
	"github.com/rs/zerolog"

	"github.com/rshade/cvdesk/internal/config"
	"github.com/rshade/cvdesk/internal/source"
	"github.com/rshade/cvdesk/internal/view"
)

// sourceFlags are the per-command overrides of the source section.
type sourceFlags struct {
	file string
	url  string
}

// apply copies explicitly set flags over cfg.Source. A --url clears a
// configured file so the flag always wins.
func (f sourceFlags) apply(cfg *config.Config) {
	if f.url != "" {
		cfg.Source.BaseURL = f.url
		cfg.Source.File = ""
	}
	if f.file != "" {
		cfg.Source.File = f.file
	}
}

// buildFetcher returns the fetcher described by cfg and a label for logs.
func buildFetcher(cfg *config.Config) (view.Fetcher, string, error) {
	if cfg.Source.File != "" {
		return source.NewFileFetcher(cfg.Source.File), cfg.Source.File, nil
	}
	fetch, err := source.NewHTTPFetcher(cfg.Source.BaseURL,
		source.WithTimeout(cfg.Source.Timeout),
		source.WithToken(cfg.Source.Token),
	)
	if err != nil {
		return nil, "", err
	}
	return fetch, cfg.Source.BaseURL, nil
}

// buildDetailFetcher returns the single-CV fetcher described by cfg. A file
// source has no detail endpoint, so its rows are looked up in the list.
func buildDetailFetcher(cfg *config.Config) (view.DetailFetcher, error) {
	if cfg.Source.File != "" {
		return source.DetailsFromList(source.NewFileFetcher(cfg.Source.File)), nil
	}
	return source.NewHTTPDetailFetcher(cfg.Source.BaseURL,
		source.WithTimeout(cfg.Source.Timeout),
		source.WithToken(cfg.Source.Token),
	)
}

// controllerOptions turns the view and breaker sections into controller options.
func controllerOptions(cfg *config.Config, l zerolog.Logger) []view.Option {
	opts := []view.Option{
		view.WithLogger(l),
		view.WithFailureMessage(cfg.View.FailureMessage),
	}
	if cfg.Breaker.Enabled {
		bl := l.With().Str("component", "source").Logger()
		opts = append(opts, view.WithMiddleware(source.CircuitBreaker(source.BreakerSettings{
			Name:        "cv-source",
			MaxFailures: cfg.Breaker.MaxFailures,
			OpenTimeout: cfg.Breaker.OpenTimeout,
			Logger:      &bl,
		})))
	}
	return opts
}
