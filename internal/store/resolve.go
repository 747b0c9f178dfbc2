package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Resolver turns a user-supplied target reference into a BuildUnit.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (*BuildUnit, error)
}

// ResolverFor selects the resolution strategy by reference shape:
// store paths ending in .drv resolve as plain paths, everything else
// (including path#target references) goes through flake resolution.
func ResolverFor(s Store, ref string) Resolver {
	if IsDerivation(ref) && !strings.Contains(ref, "#") {
		return &PlainPathResolver{Store: s}
	}
	return &FlakeReferenceResolver{Store: s}
}

// PlainPathResolver resolves a derivation store path. The metadata
// dump must contain the path itself as a key.
type PlainPathResolver struct {
	Store Store
}

func (r *PlainPathResolver) Resolve(ctx context.Context, ref string) (*BuildUnit, error) {
	drvs, err := r.Store.Derivation(ctx, ref)
	if err != nil {
		return nil, err
	}
	drv, ok := drvs[ref]
	if !ok {
		return nil, fmt.Errorf("derivation %s missing from store metadata", ref)
	}
	return newBuildUnit(ref, drv), nil
}

// FlakeReferenceResolver resolves a flake-style reference. The store
// tool is expected to report exactly one derivation; if it reports
// several, the lexicographically first path wins to keep resolution
// deterministic.
type FlakeReferenceResolver struct {
	Store Store
}

func (r *FlakeReferenceResolver) Resolve(ctx context.Context, ref string) (*BuildUnit, error) {
	drvs, err := r.Store.Derivation(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(drvs) == 0 {
		return nil, fmt.Errorf("reference %s resolved to no derivations", ref)
	}
	paths := make([]string, 0, len(drvs))
	for path := range drvs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	path := paths[0]
	return newBuildUnit(path, drvs[path]), nil
}

func newBuildUnit(path string, drv Derivation) *BuildUnit {
	return &BuildUnit{
		Path:    path,
		Name:    drv.Name,
		Env:     drv.Env,
		Outputs: drv.Outputs,
	}
}
