package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/pdf-converter/internal/domain"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "uploads", cfg.Workspace.UploadDir)
	assert.Equal(t, "outputs", cfg.Workspace.OutputDir)
	assert.Equal(t, 2*time.Minute, cfg.Convert.Timeout)
	assert.Equal(t, "pdf", cfg.Convert.UploadField)
	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 4000
workspace:
  upload_dir: /tmp/in
convert:
  jpeg_quality: 75
observability:
  log_format: console
`), 0o644))

	t.Setenv("PORT", "5000")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "/tmp/in", cfg.Workspace.UploadDir)
	assert.Equal(t, "/tmp/out", cfg.Workspace.OutputDir)
	assert.Equal(t, 75, cfg.Convert.JPEGQuality)
	assert.Equal(t, "console", cfg.Observability.LogFormat)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	// untouched defaults survive
	assert.Equal(t, 600, cfg.Convert.ImageMaxWidth)
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 4100\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4100, cfg.Server.Port)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("UPLOAD_DIR=from-dotenv\n"), 0o644))
	// godotenv never overrides variables that are already set
	t.Setenv("UPLOAD_DIR", "")
	os.Unsetenv("UPLOAD_DIR")
	t.Cleanup(func() { os.Unsetenv("UPLOAD_DIR") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Workspace.UploadDir)
}

func TestLoad_ConvertTimeoutRaisesWriteTimeout(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONVERT_TIMEOUT", "10m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Convert.Timeout)
	assert.Greater(t, cfg.Server.WriteTimeout, cfg.Convert.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{name: "bad port", env: map[string]string{"PORT": "abc"}},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "bad timeout", env: map[string]string{"CONVERT_TIMEOUT": "soon"}},
		{name: "bad upload size", env: map[string]string{"MAX_UPLOAD_BYTES": "-1"}},
		{name: "bad log format", env: map[string]string{"LOG_FORMAT": "xml"}},
		{name: "bad yaml", yaml: "server: [\n"},
		{name: "bad quality", yaml: "convert:\n  jpeg_quality: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = filepath.Join(t.TempDir(), "c.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeConfig, domain.ErrorTypeOf(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
