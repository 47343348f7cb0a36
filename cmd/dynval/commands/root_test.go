package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/logging"
)

// keepLogger restores the default logger and logging flags after a test that
// calls setupLogging directly.
func keepLogger(t *testing.T) {
	t.Helper()
	orig := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(orig)
		resetFlags(rootCmd)
	})
}

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	keepLogger(t)

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelWarn},
		{"verbose (1)", 1, slog.LevelInfo},
		{"debug (2)", 2, slog.LevelDebug},
		{"trace (3)", 3, logging.LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > logging.LevelTrace {
				shouldBeDisabled := tt.wantLevel - 4
				if logger.Enabled(t.Context(), shouldBeDisabled) {
					t.Errorf("expected level %v to be disabled", shouldBeDisabled)
				}
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	keepLogger(t)

	tests := []struct {
		name      string
		envVal    string
		wantLevel slog.Level
	}{
		{"DYNVAL_DEBUG=1", "1", slog.LevelDebug},
		{"DYNVAL_DEBUG=true", "true", slog.LevelDebug},
		{"DYNVAL_DEBUG=2", "2", logging.LevelTrace},
		{"DYNVAL_DEBUG=0", "0", slog.LevelWarn},
		{"DYNVAL_DEBUG=unknown", "foo", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = 0
			t.Setenv("DYNVAL_DEBUG", tt.envVal)

			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel == slog.LevelDebug && logger.Enabled(t.Context(), logging.LevelTrace) {
				t.Error("expected Trace level to be disabled")
			}
		})
	}
}

func TestSetupLogging_Quiet(t *testing.T) {
	keepLogger(t)

	quiet = true
	require.NoError(t, setupLogging(rootCmd))
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelError))

	verbosity = 1
	err := setupLogging(rootCmd)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.Code(err))
}

func TestSetupLogging_InvalidFormat(t *testing.T) {
	keepLogger(t)

	logFormat = "xml"
	err := setupLogging(rootCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log format "xml"`)
}

func TestSetupLogging_LogFile(t *testing.T) {
	keepLogger(t)

	logFile = filepath.Join(t.TempDir(), "dynval.log")
	verbosity = 1
	require.NoError(t, setupLogging(rootCmd))

	slog.Info("hello from test", "api_key", "sk-secretvalue123")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.HasPrefix(line, "{"), "log file is JSON: %s", line)
	assert.Contains(t, line, `"msg":"hello from test"`)
	assert.NotContains(t, line, "sk-secretvalue123")
}

func TestRootCommand_ConfigErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DYNVAL_CONFIG_DIR", dir)
	writeFile(t, dir, "config.yaml", "version: 0\n")

	_, _, err := execute(t, "", "config", "show")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig), "got %v", err)

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "Run: dynval config show", exitErr.Suggestion)

	// Commands that do not read the config still run.
	out, _, err := execute(t, "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config.yaml")
}

func TestRootCommand_ExplicitConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.yaml", "version: 1\nformat: json\n")

	out, _, err := execute(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "format: json")

	_, _, err = execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "config", "show")
	assert.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
}

func TestPrintError(t *testing.T) {
	var b strings.Builder
	PrintError(&b, errors.NewUserError(errors.New("boom"), "try again"))
	assert.Equal(t, "Error: boom\n  try again\n", b.String())

	b.Reset()
	PrintError(&b, errors.New("plain"))
	assert.Equal(t, "Error: plain\n", b.String())
}
