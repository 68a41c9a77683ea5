package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	SiteConfigPath     = "/.config/hpclaunch/"
	SiteConfigFilename = "config.yaml"
)

const SiteConfigEnv = "HPCLAUNCH_CONFIG"

// SiteConfig carries cluster-level settings that do not belong on the
// command line: where the collaborator binaries live, how conda is
// sourced inside the batch job, and where generated scripts are written.
// Flag defaults (unit, time, environment) stay on the flags.
type SiteConfig struct {
	// SbatchPath is the scheduler submission binary
	SbatchPath string `yaml:"sbatch_path"`
	// CondaPath is the conda binary used to query named environments
	CondaPath string `yaml:"conda_path"`
	// CondaSetup is sourced by the batch script before activation
	CondaSetup string `yaml:"conda_setup"`
	// Interpreter runs the target script inside the activated environment
	Interpreter string `yaml:"interpreter"`
	// OutputPattern/ErrorPattern are sbatch filename patterns (%j = job id)
	OutputPattern string `yaml:"output_pattern"`
	ErrorPattern  string `yaml:"error_pattern"`
	// ScriptDir is where submission scripts are written; empty means the
	// system temp directory
	ScriptDir string `yaml:"script_dir"`
	// KeepScripts disables cleanup after submission
	KeepScripts bool `yaml:"keep_scripts"`
}

// DefaultSiteConfig returns the built-in site settings.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		SbatchPath:    "sbatch",
		CondaPath:     "conda",
		CondaSetup:    "${HOME}/miniconda3/etc/profile.d/conda.sh",
		Interpreter:   "python",
		OutputPattern: "slurm-%j.out",
		ErrorPattern:  "slurm-%j.err",
	}
}

// Build path for site config file
// Set from environment or use backup under $HOME
func getSiteConfigPath() string {
	if configPath := os.Getenv(SiteConfigEnv); len(configPath) > 0 {
		return configPath
	}
	return os.Getenv("HOME") + SiteConfigPath + SiteConfigFilename
}

// LoadSiteConfig reads the site config, falling back to the built-in
// defaults when no file exists. Fields left empty in the file keep their
// default value.
func LoadSiteConfig() (SiteConfig, error) {
	config := DefaultSiteConfig()
	path := getSiteConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed SiteConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return config, fmt.Errorf("config: parse %s: %w", path, err)
	}
	config.merge(parsed)
	return config, nil
}

// WriteSiteConfig persists config for later runs.
func WriteSiteConfig(config SiteConfig) error {
	path := getSiteConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: ensure config dir: %w", err)
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *SiteConfig) merge(other SiteConfig) {
	if other.SbatchPath != "" {
		c.SbatchPath = other.SbatchPath
	}
	if other.CondaPath != "" {
		c.CondaPath = other.CondaPath
	}
	if other.CondaSetup != "" {
		c.CondaSetup = other.CondaSetup
	}
	if other.Interpreter != "" {
		c.Interpreter = other.Interpreter
	}
	if other.OutputPattern != "" {
		c.OutputPattern = other.OutputPattern
	}
	if other.ErrorPattern != "" {
		c.ErrorPattern = other.ErrorPattern
	}
	if other.ScriptDir != "" {
		c.ScriptDir = other.ScriptDir
	}
	if other.KeepScripts {
		c.KeepScripts = true
	}
}
