// Package store wraps the external Nix store tooling. It is the only
// I/O boundary of the provenance core: everything above it works on
// the typed values returned here and can run against the mock client.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound signals that a queried path is not present in the store.
// Hash queries wrap it in a *ToolError so callers can decide whether a
// missing path is tolerable (build outputs) or fatal (dependencies).
var ErrNotFound = errors.New("path not found in store")

// ToolError carries the context of a failed external store command.
type ToolError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("store query failed: %s", strings.Join(e.Args, " "))
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// Output is a single declared output of a derivation.
type Output struct {
	Path string `json:"path"`
}

// Derivation is the subset of `nix derivation show` output the
// provenance core consumes.
type Derivation struct {
	Name    string            `json:"name"`
	Env     map[string]string `json:"env"`
	Outputs map[string]Output `json:"outputs"`
}

// BuildUnit is a resolved build definition: its store path plus the
// metadata of the derivation living there. Immutable once resolved.
type BuildUnit struct {
	Path    string
	Name    string
	Env     map[string]string
	Outputs map[string]Output
}

// Version returns the derivation's declared version, if any.
func (u *BuildUnit) Version() string {
	return u.Env["version"]
}

// Store is the query surface of the external store tool. Implemented
// by CLI (real nix) and Mock (tests). All calls are synchronous; a
// hang in the external tool blocks the run, there is no retry layer.
type Store interface {
	// QueryHash returns the content hash of a store path in the
	// "algorithm:hexdigest" form reported by the tool. A non-zero exit
	// is mapped to a *ToolError wrapping ErrNotFound: for outputs that
	// only means "not built yet", for dependencies the caller treats
	// it as fatal.
	QueryHash(ctx context.Context, path string) (string, error)

	// QueryReferences lists the paths referenced by a store path, in
	// the canonical order reported by the tool. With recursive set it
	// returns the full closure (topological order) instead of direct
	// references only.
	QueryReferences(ctx context.Context, path string, recursive bool) ([]string, error)

	// Derivation dumps derivation metadata for a target reference,
	// keyed by derivation store path.
	Derivation(ctx context.Context, ref string) (map[string]Derivation, error)
}

// IsDerivation reports whether a store path names a build definition
// rather than a built artifact.
func IsDerivation(path string) bool {
	return strings.HasSuffix(path, ".drv")
}

// SplitDigest splits a "algorithm:hexdigest" string on the first colon.
func SplitDigest(digest string) (algo, value string, err error) {
	algo, value, ok := strings.Cut(strings.TrimSpace(digest), ":")
	if !ok || algo == "" || value == "" {
		return "", "", fmt.Errorf("malformed digest %q", digest)
	}
	return algo, value, nil
}
