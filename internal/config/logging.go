package config

import (
	"strings"

	"github.com/rshade/cvdesk/internal/logging"
)

// ToLoggingConfig converts the YAML section to a logging.Config.
// A configured file switches the output to that file; otherwise logs go to stderr.
// "text" is accepted as an alias for the console format.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	format := strings.ToLower(lc.Format)
	if format == "text" {
		format = logging.FormatConsole
	}

	return logging.Config{
		Level:  lc.Level,
		Format: format,
		Output: output,
		File:   lc.File,
	}
}
