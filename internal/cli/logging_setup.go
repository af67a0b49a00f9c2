package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/cvdesk/internal/config"
	"github.com/rshade/cvdesk/internal/logging"
)

// setupLogging builds the logger from cfg and the --debug flag and stores it,
// with a fresh trace ID, in the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.LogPathResult {
	loggingCfg := cfg.Logging

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	if loggingCfg.File != "" {
		withLog := *cfg
		withLog.Logging = loggingCfg
		if err := withLog.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && debug {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	l := result.Logger.With().Str(logging.TraceIDField, traceID).Logger()
	ctx = l.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Str(logging.TraceIDField, traceID).Msg("command started")

	return result
}

// cleanupLogging closes the log file opened by setupLogging.
func cleanupLogging(cmd *cobra.Command, result *logging.LogPathResult) error {
	if result == nil {
		return nil
	}
	logger.Debug().Ctx(cmd.Context()).Str("command", cmd.Name()).Msg("command finished")
	if err := result.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}
