package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/rshade/cvdesk/internal/pagination"
)

// Validate reports every problem found, joined, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if err := checkSchemaVersion(c.SchemaVersion); err != nil {
		add("schema_version: %v", err)
	}

	if c.Source.File == "" {
		u, err := url.Parse(c.Source.BaseURL)
		switch {
		case err != nil:
			add("source.base_url: %v", err)
		case u.Scheme != "http" && u.Scheme != "https":
			add("source.base_url: scheme must be http or https, got %q", u.Scheme)
		case u.Host == "":
			add("source.base_url: missing host")
		}
	}
	if c.Source.Timeout <= 0 {
		add("source.timeout must be positive")
	}

	if c.View.PageSize < pagination.MinPageSize || c.View.PageSize > pagination.MaxPageSize {
		add("view.page_size must be between %d and %d, got %d",
			pagination.MinPageSize, pagination.MaxPageSize, c.View.PageSize)
	}
	if _, err := pagination.ParseSort(c.View.Sort); err != nil {
		add("view.sort: %v", err)
	}

	if c.Breaker.Enabled {
		if c.Breaker.MaxFailures == 0 {
			add("breaker.max_failures must be at least 1")
		}
		if c.Breaker.OpenTimeout <= 0 {
			add("breaker.open_timeout must be positive")
		}
	}

	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
			add("logging.level: %v", err)
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console", "text":
	default:
		add("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return errors.Join(errs...)
}

func checkSchemaVersion(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("missing")
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return err
	}
	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%s is not supported (want %s)", version, SupportedSchema)
	}
	return nil
}
