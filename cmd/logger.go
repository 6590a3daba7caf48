package cmd

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const loggerMetadataKeyName = "logger"

// AppLogger retrieves the application-wide logger instance from the cli.Context's Metadata.
// This function will panic if SetAppLogger was not called before this function is called.
func AppLogger(c *cli.Context) logr.Logger {
	return c.App.Metadata[loggerMetadataKeyName].(logr.Logger)
}

// SetAppLogger stores the application-wide logger instance to the cli.Context's Metadata,
// so that it can later be retrieved by AppLogger.
func SetAppLogger(c *cli.Context, logger logr.Logger) {
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[loggerMetadataKeyName] = logger
}

// Logger returns the application-wide logger with the given name.
func Logger(c *cli.Context, name string) logr.Logger {
	return AppLogger(c).WithName(name)
}

// NewLogger creates a zap backed logger writing human-readable lines to stderr.
// With debug enabled, V(1) messages are printed as well.
func NewLogger(name string, debug bool) logr.Logger {
	return newZapLogger(name, debug, os.Stderr)
}

func newZapLogger(name string, debug bool, w io.Writer) logr.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)

	return zapr.NewLogger(zap.New(core)).WithName(name)
}

// BeforeAction sets up the application-wide logger according to the "debug" flag.
func BeforeAction(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		SetAppLogger(c, NewLogger(name, c.Bool("debug")))
		return nil
	}
}

// DebugFlag is the common flag that raises the log level.
func DebugFlag(envPrefix string) cli.Flag {
	return &cli.BoolFlag{
		Name:        "debug",
		Aliases:     []string{"verbose", "d"},
		Usage:       "sets the log level to debug",
		EnvVars:     []string{envPrefix + "DEBUG"},
		DefaultText: "false",
	}
}
