package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/carbonfocus/internal/logging"
)

// resolvedProjectDir holds the resolved project directory path for use
// by other config functions during the lifetime of a CLI invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .carbonfocus directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. CARBONFOCUS_PROJECT_DIR env var
//  3. the nearest existing .carbonfocus directory at or above startDir
//
// Returns an absolute path or "" if no project directory was found. It does
// not create the directory.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	if startDir == "" {
		return ""
	}
	return findProjectDir(ctx, startDir)
}

// findProjectDir walks up from startDir looking for a .carbonfocus directory.
// The user-level config directory is skipped so ~/.carbonfocus is never
// treated as a project overlay.
func findProjectDir(ctx context.Context, startDir string) string {
	dir := toAbs(ctx, startDir)
	userDir, _ := GetConfigDir()

	for {
		candidate := filepath.Join(dir, configDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() && candidate != userDir {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProjectDir creates a Config by loading global config then
// shallow-merging project-local config on top. If projectDir is empty,
// behaves identically to New() except that load failures are logged.
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	logger := logging.FromContext(ctx)

	cfg := Default()
	if path, err := ConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
				logger.Warn().
					Str("component", "config").
					Str("operation", "load_config").
					Err(mergeErr).
					Str("config_path", path).
					Msg("failed to load config, using defaults")
				cfg = Default()
			}
		}
	}

	if projectDir != "" {
		overlayPath := filepath.Join(projectDir, configFileName)
		if _, err := os.Stat(overlayPath); err == nil {
			merged := *cfg
			if mergeErr := ShallowMergeYAML(&merged, overlayPath); mergeErr != nil {
				logger.Warn().
					Str("component", "config").
					Str("operation", "merge_project_config").
					Err(mergeErr).
					Str("overlay_path", overlayPath).
					Msg("failed to merge project config, using global config")
			} else {
				cfg = &merged
			}
		}
	}

	cfg.ApplyEnv()
	return cfg
}

func toAbs(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		return dir
	}
	return abs
}

// toAbsProjectDir converts dir to an absolute path and appends ".carbonfocus"
// unless the path already ends with it.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs := toAbs(ctx, dir)
	if filepath.Base(abs) == configDirName {
		return abs
	}
	return filepath.Join(abs, configDirName)
}
