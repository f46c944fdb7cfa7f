// internal/config/config.go
//
// This package handles configuration and the .prefabedit directory
// structure. Every project that uses prefabedit gets a .prefabedit/
// folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/prefabworks/prefabedit/internal/scene"
)

const (
	// PrefabEditDir is the name of the directory we create in each project.
	PrefabEditDir = ".prefabedit"

	// ScratchEnv overrides the scratch scene location when set.
	ScratchEnv = "PREFABEDIT_SCRATCH"

	defaultAssetsDir    = "assets"
	defaultScratchLabel = "Prefab Editor"
)

const defaultProjectConfigYAML = `# prefabedit project configuration
version: 1

# Directory scanned for .prefab template assets, relative to the project root.
assets_dir: assets

# Override the scratch scene location. Leave empty to co-locate it with the
# prefabedit binary (extension swapped to .scene).
# scratch_scene: /tmp/prefabedit.scene
`

// ProjectConfig models .prefabedit/config.yaml.
type ProjectConfig struct {
	Version      int    `yaml:"version"`
	AssetsDir    string `yaml:"assets_dir"`
	ScratchScene string `yaml:"scratch_scene,omitempty"`
	ScratchLabel string `yaml:"scratch_label,omitempty"`
}

// Config holds the runtime configuration for prefabedit.
type Config struct {
	// ProjectDir is the directory where the user ran `prefabedit` from.
	ProjectDir string

	// ProjectStateDir is ProjectDir/.prefabedit.
	ProjectStateDir string

	// ScratchScenePath is the singleton scratch workspace location. It is
	// resolved exactly once here and injected everywhere else; the value
	// never changes for the lifetime of the process.
	ScratchScenePath string

	Project ProjectConfig
}

// InitProjectDir creates the .prefabedit directory structure in the given
// project directory. Called on startup before the TUI launches.
//
// Structure created:
// .prefabedit/
// ├── logs/    <- session logbook
// └── hooks/   <- user before-save hook scripts (.go, interpreted)
func InitProjectDir(projectDir string) error {
	stateDir := filepath.Join(projectDir, PrefabEditDir)
	dirs := []string{
		filepath.Join(stateDir, "logs"),
		filepath.Join(stateDir, "hooks"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(stateDir, "config.yaml"))
}

// NewConfig creates a Config populated with project settings. The scratch
// scene path is resolved here, once: config override, then the
// PREFABEDIT_SCRATCH environment variable, then the executable's own
// location with the extension swapped to the scene extension.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:      projectDir,
		ProjectStateDir: filepath.Join(projectDir, PrefabEditDir),
		Project:         defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	scratch := cfg.Project.ScratchScene
	if scratch == "" {
		scratch = strings.TrimSpace(os.Getenv(ScratchEnv))
	}
	if scratch == "" {
		derived, err := DefaultScratchPath()
		if err != nil {
			return nil, err
		}
		scratch = derived
	}
	cfg.ScratchScenePath = filepath.Clean(scratch)
	return cfg, nil
}

// DefaultScratchPath derives the scratch scene location from the install
// location of the tool itself: the executable path with its extension
// swapped to the scene extension.
func DefaultScratchPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("config: locate executable: %w", err)
	}
	exe, err = filepath.Abs(exe)
	if err != nil {
		return "", fmt.Errorf("config: resolve executable path: %w", err)
	}
	return strings.TrimSuffix(exe, filepath.Ext(exe)) + scene.Ext, nil
}

// AssetsDir returns the absolute assets directory for the project.
func (c *Config) AssetsDir() string {
	return resolvePath(c.ProjectDir, c.Project.AssetsDir)
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.ProjectStateDir, "logs")
}

// HooksDir returns the directory scanned for user before-save hooks.
func (c *Config) HooksDir() string {
	return filepath.Join(c.ProjectStateDir, "hooks")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ProjectStateDir, "config.yaml")
}

// ScratchLabel returns the display label for the scratch workspace.
func (c *Config) ScratchLabel() string {
	if label := strings.TrimSpace(c.Project.ScratchLabel); label != "" {
		return label
	}
	return defaultScratchLabel
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:   1,
		AssetsDir: defaultAssetsDir,
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.AssetsDir) == "" {
		pc.AssetsDir = defaultAssetsDir
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.AssetsDir = strings.TrimSpace(pc.AssetsDir)
	pc.ScratchLabel = strings.TrimSpace(pc.ScratchLabel)
	if trimmed := strings.TrimSpace(pc.ScratchScene); trimmed != "" {
		pc.ScratchScene = resolvePath(base, trimmed)
	} else {
		pc.ScratchScene = ""
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.ScratchScene != "" && filepath.Ext(pc.ScratchScene) != scene.Ext {
		return fmt.Errorf("scratch_scene must use the %s extension", scene.Ext)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
