package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSiteConfigDefaultsWhenMissing(t *testing.T) {
	t.Setenv(SiteConfigEnv, filepath.Join(t.TempDir(), "config.yaml"))
	config, err := LoadSiteConfig()
	if err != nil {
		t.Fatalf("LoadSiteConfig returned error: %v", err)
	}
	if config.SbatchPath != "sbatch" {
		t.Fatalf("expected sbatch default, got %q", config.SbatchPath)
	}
	if config.OutputPattern != "slurm-%j.out" {
		t.Fatalf("wrong output pattern: %q", config.OutputPattern)
	}
	if config.KeepScripts {
		t.Fatal("keep_scripts should default to false")
	}
}

func TestLoadSiteConfigParsesYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	configYAML := `sbatch_path: /usr/local/bin/sbatch
conda_setup: /sw/arch/conda/etc/profile.d/conda.sh
script_dir: /scratch/jobs
keep_scripts: true
`
	if err := os.WriteFile(path, []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(SiteConfigEnv, path)
	config, err := LoadSiteConfig()
	if err != nil {
		t.Fatalf("LoadSiteConfig returned error: %v", err)
	}
	if config.SbatchPath != "/usr/local/bin/sbatch" {
		t.Fatalf("wrong sbatch path: %q", config.SbatchPath)
	}
	if config.CondaSetup != "/sw/arch/conda/etc/profile.d/conda.sh" {
		t.Fatalf("wrong conda setup: %q", config.CondaSetup)
	}
	if !config.KeepScripts {
		t.Fatal("expected keep_scripts true")
	}
	// untouched fields keep their defaults
	if config.Interpreter != "python" {
		t.Fatalf("expected default interpreter, got %q", config.Interpreter)
	}
}

func TestWriteSiteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Setenv(SiteConfigEnv, path)
	config := DefaultSiteConfig()
	config.ScriptDir = "/scratch/jobs"
	if err := WriteSiteConfig(config); err != nil {
		t.Fatalf("WriteSiteConfig returned error: %v", err)
	}
	loaded, err := LoadSiteConfig()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ScriptDir != "/scratch/jobs" {
		t.Fatalf("round trip lost script_dir: %q", loaded.ScriptDir)
	}
}
