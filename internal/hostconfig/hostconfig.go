// Package hostconfig loads the knobs a host process feeds into the core
// (the CID opts of spec §4.4 and the snapshot/query limits of spec §9's
// growable-tables resolution) from defaults, a config file, and
// environment variables, in that increasing order of precedence — the same
// viper-based layering internal/config uses for the teacher's CLI.
// Environment overrides apply to the yaml path only; a .toml file is
// decoded directly and reads no environment variables.
package hostconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/janus-lang/astdb/internal/cid"
	"github.com/janus-lang/astdb/internal/snapshot"
)

// tomlFile mirrors Config's fields for direct TOML decoding. viper's own
// TOML codec doesn't round-trip the nested table shape this config uses
// as cleanly as a typed decode does, so a .toml config file is parsed
// directly with BurntSushi/toml rather than handed to viper.
type tomlFile struct {
	CID struct {
		ToolchainVersion uint32 `toml:"toolchain_version"`
		ProfileMask      uint32 `toml:"profile_mask"`
		EffectMask       uint64 `toml:"effect_mask"`
		SafetyLevel      uint8  `toml:"safety_level"`
		Fastmath         bool   `toml:"fastmath"`
		Deterministic    bool   `toml:"deterministic"`
		TargetTriple     string `toml:"target_triple"`
		ToolchainTag     string `toml:"toolchain_tag"`
	} `toml:"cid"`
	Limits struct {
		MaxTokens int `toml:"max_tokens"`
		MaxNodes  int `toml:"max_nodes"`
		MaxEdges  int `toml:"max_edges"`
		MaxScopes int `toml:"max_scopes"`
		MaxDecls  int `toml:"max_decls"`
		MaxRefs   int `toml:"max_refs"`
		MaxDiags  int `toml:"max_diags"`
	} `toml:"limits"`
}

// Config is everything a host needs to stand up a store: the CID knob
// block and the optional per-table row caps.
type Config struct {
	CIDOpts cid.Opts
	Limits  snapshot.Limits
}

// Load discovers and reads astdb.yaml or astdb.toml, applying defaults; a
// yaml config also gets ASTDB_-prefixed environment overrides (spec
// ambient-stack expansion: see SPEC_FULL.md's hostconfig section). path,
// if non-empty, is used as given; otherwise Load walks up from the working
// directory looking for astdb.yaml or astdb.toml, the way the teacher's
// config package walks up looking for .beads/config.yaml.
func Load(path string) (Config, error) {
	if path == "" {
		path = discover()
	}
	if strings.HasSuffix(path, ".toml") {
		return loadTOML(path)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("ASTDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("cid.toolchain_version", 1)
	v.SetDefault("cid.profile_mask", 0)
	v.SetDefault("cid.effect_mask", 0)
	v.SetDefault("cid.safety_level", 1)
	v.SetDefault("cid.fastmath", false)
	v.SetDefault("cid.deterministic", true)
	v.SetDefault("cid.target_triple", "unknown-unknown-unknown")
	v.SetDefault("cid.toolchain_tag", "")

	v.SetDefault("limits.max_tokens", 0)
	v.SetDefault("limits.max_nodes", 0)
	v.SetDefault("limits.max_edges", 0)
	v.SetDefault("limits.max_scopes", 0)
	v.SetDefault("limits.max_decls", 0)
	v.SetDefault("limits.max_refs", 0)
	v.SetDefault("limits.max_diags", 0)

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("hostconfig: reading %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := Config{
		CIDOpts: cid.Opts{
			ToolchainVersion: uint32(v.GetInt("cid.toolchain_version")),
			ProfileMask:      uint32(v.GetInt("cid.profile_mask")),
			EffectMask:       uint64(v.GetInt64("cid.effect_mask")),
			SafetyLevel:      uint8(v.GetInt("cid.safety_level")),
			Fastmath:         v.GetBool("cid.fastmath"),
			Deterministic:    v.GetBool("cid.deterministic"),
			TargetTriple:     v.GetString("cid.target_triple"),
			ToolchainTag:     v.GetString("cid.toolchain_tag"),
		},
		Limits: snapshot.Limits{
			MaxTokens: v.GetInt("limits.max_tokens"),
			MaxNodes:  v.GetInt("limits.max_nodes"),
			MaxEdges:  v.GetInt("limits.max_edges"),
			MaxScopes: v.GetInt("limits.max_scopes"),
			MaxDecls:  v.GetInt("limits.max_decls"),
			MaxRefs:   v.GetInt("limits.max_refs"),
			MaxDiags:  v.GetInt("limits.max_diags"),
		},
	}

	if !cfg.CIDOpts.ValidateToolchainTag() {
		return Config{}, fmt.Errorf("hostconfig: cid.toolchain_tag %q is not a valid semantic version", cfg.CIDOpts.ToolchainTag)
	}

	return cfg, nil
}

// discover walks up from the working directory looking for astdb.yaml or
// astdb.toml, mirroring the teacher's upward .beads/config.yaml search.
func discover() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; ; {
		for _, name := range []string{"astdb.yaml", "astdb.toml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadTOML decodes a .toml config file directly, applying the same
// defaults Load applies for the yaml/viper path.
func loadTOML(path string) (Config, error) {
	var f tomlFile
	f.CID.ToolchainVersion = 1
	f.CID.SafetyLevel = 1
	f.CID.Deterministic = true
	f.CID.TargetTriple = "unknown-unknown-unknown"

	if path != "" {
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return Config{}, fmt.Errorf("hostconfig: reading %s: %w", path, err)
		}
	}

	cfg := Config{
		CIDOpts: cid.Opts{
			ToolchainVersion: f.CID.ToolchainVersion,
			ProfileMask:      f.CID.ProfileMask,
			EffectMask:       f.CID.EffectMask,
			SafetyLevel:      f.CID.SafetyLevel,
			Fastmath:         f.CID.Fastmath,
			Deterministic:    f.CID.Deterministic,
			TargetTriple:     f.CID.TargetTriple,
			ToolchainTag:     f.CID.ToolchainTag,
		},
		Limits: snapshot.Limits{
			MaxTokens: f.Limits.MaxTokens,
			MaxNodes:  f.Limits.MaxNodes,
			MaxEdges:  f.Limits.MaxEdges,
			MaxScopes: f.Limits.MaxScopes,
			MaxDecls:  f.Limits.MaxDecls,
			MaxRefs:   f.Limits.MaxRefs,
			MaxDiags:  f.Limits.MaxDiags,
		},
	}

	if !cfg.CIDOpts.ValidateToolchainTag() {
		return Config{}, fmt.Errorf("hostconfig: cid.toolchain_tag %q is not a valid semantic version", cfg.CIDOpts.ToolchainTag)
	}
	return cfg, nil
}
