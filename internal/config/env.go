package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables that override config.yaml.
const (
	EnvHome       = "CVDESK_HOME"
	EnvProjectDir = "CVDESK_PROJECT_DIR"
	EnvBaseURL    = "CVDESK_BASE_URL"
	EnvToken      = "CVDESK_TOKEN"
	EnvPageSize   = "CVDESK_PAGE_SIZE"
	EnvLogLevel   = "CVDESK_LOG_LEVEL"
)

// ApplyEnv overlays CVDESK_* variables. A non-numeric CVDESK_PAGE_SIZE is ignored.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.Source.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Source.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPageSize)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.View.PageSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
}
