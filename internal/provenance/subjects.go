package provenance

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/in-toto/in-toto-golang/in_toto/slsa_provenance/common"

	"github.com/skybuild/nix-provenance/internal/store"
)

// subjects converts a derivation's declared outputs into attestation
// subjects. Outputs not yet materialized in the store are skipped with
// a warning: an unbuilt output is a normal state, not a failure.
// Outputs are walked in sorted name order so the document is stable.
func (g *Generator) subjects(ctx context.Context, outputs map[string]store.Output) ([]Subject, error) {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	subjects := []Subject{}
	for _, name := range names {
		path := outputs[name].Path

		hash, err := g.store.QueryHash(ctx, path)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				g.logger.Warn("derivation output not found in the store, assuming it was not built",
					"output", name, "path", path)
				continue
			}
			return nil, fmt.Errorf("query hash of output %s: %w", name, err)
		}

		algo, value, err := store.SplitDigest(hash)
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", name, err)
		}

		subjects = append(subjects, Subject{
			Name:   name,
			URI:    path,
			Digest: common.DigestSet{algo: value},
		})
	}
	return subjects, nil
}
