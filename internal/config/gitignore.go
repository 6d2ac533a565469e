package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ignoredPatterns are the files carbonfocus writes next to a project
// config.yaml that should stay out of version control. The config itself
// and any custom factor table (--factors) are meant to be committed.
var ignoredPatterns = []string{
	"*.log",         // logging.file when pointed inside the project
	"reports/",      // redirected calculate and batch output
	"factors.*.bak", // editor copies of an exported factor table
}

// GitignoreContent returns the .gitignore written into a project-local
// .carbonfocus/ directory.
func GitignoreContent() string {
	var sb strings.Builder
	sb.WriteString("# carbonfocus project-local data (auto-generated)\n")
	sb.WriteString("# config.yaml and custom factor tables are tracked.\n")
	for _, p := range ignoredPatterns {
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return sb.String()
}

// EnsureGitignore creates a .gitignore file in the given directory if one
// does not already exist. Returns true if a new file was created. An existing
// .gitignore is never overwritten.
func EnsureGitignore(dir string) (bool, error) {
	gitignorePath := filepath.Join(dir, ".gitignore")

	_, err := os.Stat(gitignorePath)
	if err == nil {
		return false, nil
	}

	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking .gitignore at %s: %w", gitignorePath, err)
	}

	if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, mkdirErr)
	}

	//nolint:gosec // .gitignore must be world-readable (0644).
	if writeErr := os.WriteFile(gitignorePath, []byte(GitignoreContent()), 0o644); writeErr != nil {
		return false, fmt.Errorf("writing .gitignore at %s: %w", gitignorePath, writeErr)
	}

	return true, nil
}
