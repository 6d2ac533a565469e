package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonfocus/internal/config"
)

func TestConfigInit_Global(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")

	path := filepath.Join(home, "config.yaml")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)

	_, _, err = execute(t, "", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "", "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_Project(t *testing.T) {
	home := setupCLITest(t)
	project := t.TempDir()

	out, _, err := execute(t, "", "config", "init", "--project", "--project-dir", project)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")
	assert.Contains(t, out, "Created .gitignore")

	overlay := filepath.Join(project, ".carbonfocus")
	assert.FileExists(t, filepath.Join(overlay, "config.yaml"))
	assert.FileExists(t, filepath.Join(overlay, ".gitignore"))
	assert.NoFileExists(t, filepath.Join(home, "config.yaml"), "global config untouched")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "no file uses defaults"},
		{name: "json output", content: "output:\n  default_format: json\n  precision: 2\n"},
		{name: "bad precision", content: "output:\n  precision: 9\n", wantErr: "precision"},
		{name: "bad output format", content: "output:\n  default_format: yaml\n", wantErr: "default_format"},
		{name: "negative rate limit", content: "server:\n  rate_limit: -1\n", wantErr: "rate_limit"},
		{name: "negative budget", content: "budget:\n  monthly_kg: -5\n", wantErr: "monthly_kg"},
		{name: "missing factors file", content: "factors:\n  file: /nonexistent/factors.yaml\n", wantErr: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := setupCLITest(t)
			if tt.content != "" {
				require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(tt.content), 0o600))
			}

			out, _, err := execute(t, "", "config", "validate", "--verbose")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "Configuration is valid")
			assert.Contains(t, out, "Emission factors: embedded")
		})
	}
}
