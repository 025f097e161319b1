// Package observability holds the process-wide CLI logger.
package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the logger used by CLI commands. It writes to stderr so
// stdout stays reserved for the machine-readable status word. It defaults
// to a no-op logger until InitCLILogger runs.
var CLILogger = zap.NewNop()

// InitCLILogger configures CLILogger for console output at the given
// level. verbose forces debug regardless of level.
func InitCLILogger(level string, verbose bool) {
	lvl := zapcore.WarnLevel
	if parsed, err := zapcore.ParseLevel(strings.TrimSpace(strings.ToLower(level))); err == nil && level != "" {
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	CLILogger = zap.New(core)
}
