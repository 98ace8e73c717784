package cid

import "golang.org/x/mod/semver"

// Opts is the fixed-field CID configuration surface of spec §4.4/§9: no
// named/keyword arguments, no hidden defaults beyond these.
type Opts struct {
	ToolchainVersion uint32
	ProfileMask      uint32
	EffectMask       uint64
	SafetyLevel      uint8
	Fastmath         bool
	Deterministic    bool
	TargetTriple     string

	// ToolchainTag is an optional human-readable semantic version (e.g.
	// "v1.4.0") surfaced in diagnostics only. It is validated but never
	// hashed — promoting it to a ninth knob field would let a cosmetic
	// release tag silently change every CID in the store, which spec §4.4
	// forbids ("No field may be silently omitted; reordering or dropping
	// any field is a specification violation" cuts both ways: nothing may
	// be silently *added* either without an explicit version bump of
	// ToolchainVersion).
	ToolchainTag string
}

// DefaultOpts returns the defaults named in spec §4.4.
func DefaultOpts() Opts {
	return Opts{
		ToolchainVersion: 1,
		ProfileMask:      0,
		EffectMask:       0,
		SafetyLevel:      1,
		Fastmath:         false,
		Deterministic:    true,
		TargetTriple:     "unknown-unknown-unknown",
	}
}

// ValidateToolchainTag reports whether o.ToolchainTag is either empty or a
// valid semantic version, per golang.org/x/mod/semver's canonical form
// (e.g. "v1.4.0").
func (o Opts) ValidateToolchainTag() bool {
	if o.ToolchainTag == "" {
		return true
	}
	return semver.IsValid(o.ToolchainTag)
}
