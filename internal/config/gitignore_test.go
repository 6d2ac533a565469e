package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonfocus/internal/config"
)

func TestEnsureGitignore_CreatesNewFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), ".carbonfocus")

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created, "should report file was created")

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))
}

func TestGitignoreContent(t *testing.T) {
	t.Parallel()

	content := config.GitignoreContent()
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	tests := []struct {
		name    string
		pattern string
		ignored bool
	}{
		{name: "log files", pattern: "*.log", ignored: true},
		{name: "saved reports", pattern: "reports/", ignored: true},
		{name: "factor table backups", pattern: "factors.*.bak", ignored: true},
		{name: "project config", pattern: "config.yaml", ignored: false},
		{name: "custom factor table", pattern: "factors.yaml", ignored: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.ignored {
				assert.Contains(t, lines, tt.pattern)
			} else {
				assert.NotContains(t, lines, tt.pattern)
			}
		})
	}
	assert.True(t, strings.HasPrefix(lines[0], "#"), "first line is a comment")
}

func TestEnsureGitignore_DoesNotOverwriteExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gitignorePath := filepath.Join(dir, ".gitignore")

	customContent := "# my custom gitignore\nnode_modules/\n"
	require.NoError(t, os.WriteFile(gitignorePath, []byte(customContent), 0o644))

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created, "should report file was NOT created")

	data, err := os.ReadFile(gitignorePath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(data))
}

func TestEnsureGitignore_ParentIsFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := config.EnsureGitignore(filepath.Join(file, ".carbonfocus"))
	assert.Error(t, err)
}
