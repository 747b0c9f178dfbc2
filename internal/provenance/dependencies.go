package provenance

import (
	"context"
	"fmt"

	"github.com/in-toto/in-toto-golang/in_toto/slsa_provenance/common"

	"github.com/skybuild/nix-provenance/internal/store"
)

// dependencies walks the reference graph of a derivation and converts
// every referenced path into a resolved-dependency descriptor.
//
// The order reported by the store tool is preserved exactly: it is
// already canonical (topological for the transitive closure), no
// deduplication or reordering happens here, and consumers rely on that
// determinism for reproducibility checks. Unlike build outputs, a
// referenced path is assumed to always be present; any missing hash is
// a hard error.
func (g *Generator) dependencies(ctx context.Context, drvPath string, recursive bool) ([]ResourceDescriptor, error) {
	paths, err := g.store.QueryReferences(ctx, drvPath, recursive)
	if err != nil {
		return nil, fmt.Errorf("query references of %s: %w", drvPath, err)
	}

	deps := []ResourceDescriptor{}
	for _, path := range paths {
		hash, err := g.store.QueryHash(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("query hash of dependency %s: %w", path, err)
		}
		algo, value, err := store.SplitDigest(hash)
		if err != nil {
			return nil, fmt.Errorf("dependency %s: %w", path, err)
		}

		dep := ResourceDescriptor{
			URI:    path,
			Digest: common.DigestSet{algo: value},
		}

		// Derivation references carry identifying metadata; plain
		// artifact paths are described by uri and digest alone.
		if store.IsDerivation(path) {
			drvs, err := g.store.Derivation(ctx, path)
			if err != nil {
				return nil, fmt.Errorf("show dependency %s: %w", path, err)
			}
			drv, ok := drvs[path]
			if !ok {
				return nil, fmt.Errorf("dependency %s missing from store metadata", path)
			}
			dep.Name = drv.Name
			if version := drv.Env["version"]; version != "" {
				dep.Annotations = map[string]any{"version": version}
			}
		}

		deps = append(deps, dep)
	}
	return deps, nil
}
