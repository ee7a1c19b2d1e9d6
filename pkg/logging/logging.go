package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AppName names the state subdirectory and the log file
const AppName = "syplug"

// EnvLogFile overrides the log file location. "off" disables the file.
const EnvLogFile = "SYPLUG_LOG_FILE"

// levels is indexed by the number of -v flags; past the end is trace
var levels = []zerolog.Level{zerolog.WarnLevel, zerolog.InfoLevel, zerolog.DebugLevel}

func levelFor(verbosity int) zerolog.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(levels) {
		return zerolog.TraceLevel
	}
	return levels[verbosity]
}

// SetupLogger installs the global logger for one syplug run.
//
// Diagnostics go to stderr so stdout stays clean for --format json, and are
// appended to the log file returned by LogFilePath. Every line carries the
// pid so interleaved runs in the shared file can be told apart.
func SetupLogger(verbosity int) {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}

	var out io.Writer = console
	logFile := LogFilePath()
	var fileErr error
	if logFile != "" {
		var f *os.File
		if f, fileErr = openLogFile(logFile); fileErr == nil {
			out = zerolog.MultiLevelWriter(console, f)
		}
	}

	ctx := zerolog.New(out).With().Timestamp().Int("pid", os.Getpid())
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logFile).Msg("Log file unavailable, logging to stderr only")
	}
	log.Debug().Int("verbosity", verbosity).Str("log_file", logFile).Msg("syplug logger ready")
}

// GetLogger returns a logger tagged with the given component name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogFilePath is $SYPLUG_LOG_FILE when set, otherwise
// <state home>/syplug/syplug.log. An empty result means no log file.
// The environment is read on every call so tests can redirect it.
func LogFilePath() string {
	if override := os.Getenv(EnvLogFile); override != "" {
		if override == "off" {
			return ""
		}
		return override
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	if stateHome == "" {
		return AppName + ".log"
	}
	return filepath.Join(stateHome, AppName, AppName+".log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
