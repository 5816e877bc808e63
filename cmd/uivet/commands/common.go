// Package commands implements CLI command handlers for uivet.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/uivet/uivet/internal/config"
	"github.com/uivet/uivet/internal/observability"
	"github.com/uivet/uivet/pkg/imports"
	"github.com/uivet/uivet/pkg/syntax"
	"github.com/uivet/uivet/pkg/syntax/treesitter"
	"github.com/uivet/uivet/pkg/validator"
	"github.com/uivet/uivet/pkg/version"
)

// ErrValidationFailed signals a run that found at least one invalid file.
// The CLI maps it to a non-zero exit code.
var ErrValidationFailed = errors.New("validation failed")

// stdinName marks input read from standard input in rendered output.
const stdinName = "<stdin>"

// defaultInputLimit caps snippet reads for commands that run without a
// loaded configuration, matching validator.max_input_bytes' default.
const defaultInputLimit = 1 << 20

// runtime bundles the collaborators most commands need.
type runtime struct {
	cfg      *config.Config
	patterns imports.Table
	parser   syntax.Parser
	logger   *slog.Logger
}

// loadRuntime loads configuration, the import-pattern table, and the
// configured syntax engine.
func loadRuntime(configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	patterns, err := config.LoadPatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		patterns: patterns,
		parser:   buildParser(cfg),
		logger:   buildLogger(cfg),
	}, nil
}

// newValidator builds a validator from the loaded runtime.
func (rt *runtime) newValidator() *validator.Validator {
	return validator.New(
		validator.WithParser(rt.parser),
		validator.WithPatterns(rt.patterns),
	)
}

func buildParser(cfg *config.Config) syntax.Parser {
	if cfg.Validator.Engine == config.EngineTreeSitter {
		return treesitter.New()
	}

	return syntax.Lexical{}
}

func buildLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.Logging.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Logging.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initObservability builds OTel providers for a server mode command.
// Export is disabled unless OTEL_EXPORTER_OTLP_ENDPOINT or the config
// endpoint is set.
func initObservability(cfg *config.Config, mode observability.AppMode, debug bool) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogJSON = true

	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	if env := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); env != "" {
		obsCfg.OTLPEndpoint = env
	}

	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.OTLPInsecure = cfg.Telemetry.Insecure || os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio

	if debug {
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.DebugTrace = true
	}

	return observability.Init(obsCfg)
}

// readInput reads the snippet to operate on: the named file, or stdin
// when the name is empty or "-". Input over limit bytes is rejected.
func readInput(cmd *cobra.Command, name string, limit int64) (content string, display string, err error) {
	if name == "" || name == "-" {
		data, readErr := io.ReadAll(io.LimitReader(cmd.InOrStdin(), limit+1))
		if readErr != nil {
			return "", "", fmt.Errorf("read stdin: %w", readErr)
		}

		if int64(len(data)) > limit {
			return "", "", fmt.Errorf("%s: input too large (max %s)",
				stdinName, humanize.Bytes(uint64(limit))) //nolint:gosec // limit validated positive
		}

		return string(data), stdinName, nil
	}

	info, statErr := os.Stat(name)
	if statErr != nil {
		return "", "", fmt.Errorf("stat %s: %w", name, statErr)
	}

	if info.Size() > limit {
		return "", "", fmt.Errorf("%s: input too large: %s (max %s)",
			name, humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(limit))) //nolint:gosec // sizes checked non-negative
	}

	data, readErr := os.ReadFile(name)
	if readErr != nil {
		return "", "", fmt.Errorf("read %s: %w", name, readErr)
	}

	return string(data), name, nil
}
