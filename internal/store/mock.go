package store

import (
	"context"
	"fmt"
)

// Mock is an in-memory Store for tests and demos. Hashes maps store
// paths to "algorithm:hexdigest" strings; a path absent from Hashes
// behaves like a path missing from the store. References holds direct
// references per path, Requisites the transitive closure, and
// Derivations the metadata dumps keyed by show argument.
type Mock struct {
	Hashes      map[string]string
	References  map[string][]string
	Requisites  map[string][]string
	Derivations map[string]map[string]Derivation

	// Calls records every query in invocation order.
	Calls []string
}

func (m *Mock) QueryHash(ctx context.Context, path string) (string, error) {
	m.Calls = append(m.Calls, "hash "+path)
	hash, ok := m.Hashes[path]
	if !ok {
		return "", &ToolError{
			Args:   []string{"nix-store", "--query", "--hash", path},
			Stderr: fmt.Sprintf("error: path '%s' is not valid", path),
			Err:    ErrNotFound,
		}
	}
	return hash, nil
}

func (m *Mock) QueryReferences(ctx context.Context, path string, recursive bool) ([]string, error) {
	depth := "--references"
	refs := m.References
	if recursive {
		depth = "--requisites"
		refs = m.Requisites
	}
	m.Calls = append(m.Calls, fmt.Sprintf("query %s %s", depth, path))
	paths, ok := refs[path]
	if !ok {
		return nil, &ToolError{
			Args:   []string{"nix-store", "--query", depth, path},
			Stderr: fmt.Sprintf("error: path '%s' is not valid", path),
			Err:    fmt.Errorf("exit status 1"),
		}
	}
	return paths, nil
}

func (m *Mock) Derivation(ctx context.Context, ref string) (map[string]Derivation, error) {
	m.Calls = append(m.Calls, "show "+ref)
	drvs, ok := m.Derivations[ref]
	if !ok {
		return nil, &ToolError{
			Args:   []string{"nix", "derivation", "show", ref},
			Stderr: fmt.Sprintf("error: cannot find derivation for '%s'", ref),
			Err:    fmt.Errorf("exit status 1"),
		}
	}
	return drvs, nil
}
