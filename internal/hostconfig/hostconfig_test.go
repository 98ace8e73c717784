package hostconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingExplicitPathFails(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatalf("Load(missing explicit path) should fail to read the config file")
	}
	_ = cfg
}

func TestLoadNoPathUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(cwd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.CIDOpts.ToolchainVersion != 1 {
		t.Errorf("ToolchainVersion = %d, want 1", cfg.CIDOpts.ToolchainVersion)
	}
	if !cfg.CIDOpts.Deterministic {
		t.Errorf("Deterministic = false, want true")
	}
	if cfg.Limits.MaxNodes != 0 {
		t.Errorf("MaxNodes = %d, want 0 (unbounded)", cfg.Limits.MaxNodes)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "astdb.yaml")
	contents := []byte("cid:\n  toolchain_version: 7\n  safety_level: 2\nlimits:\n  max_nodes: 1000\n")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CIDOpts.ToolchainVersion != 7 {
		t.Errorf("ToolchainVersion = %d, want 7", cfg.CIDOpts.ToolchainVersion)
	}
	if cfg.CIDOpts.SafetyLevel != 2 {
		t.Errorf("SafetyLevel = %d, want 2", cfg.CIDOpts.SafetyLevel)
	}
	if cfg.Limits.MaxNodes != 1000 {
		t.Errorf("MaxNodes = %d, want 1000", cfg.Limits.MaxNodes)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "astdb.toml")
	contents := []byte("[cid]\ntoolchain_version = 9\nsafety_level = 3\n\n[limits]\nmax_nodes = 500\n")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CIDOpts.ToolchainVersion != 9 {
		t.Errorf("ToolchainVersion = %d, want 9", cfg.CIDOpts.ToolchainVersion)
	}
	if cfg.CIDOpts.SafetyLevel != 3 {
		t.Errorf("SafetyLevel = %d, want 3", cfg.CIDOpts.SafetyLevel)
	}
	if cfg.Limits.MaxNodes != 500 {
		t.Errorf("MaxNodes = %d, want 500", cfg.Limits.MaxNodes)
	}
	// Defaults not present in the file should still be applied.
	if !cfg.CIDOpts.Deterministic {
		t.Errorf("Deterministic = false, want true (default)")
	}
}

func TestLoadRejectsInvalidToolchainTag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "astdb.yaml")
	contents := []byte("cid:\n  toolchain_tag: \"not-a-semver\"\n")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("Load should reject an invalid cid.toolchain_tag")
	}
}
