package provenance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybuild/nix-provenance/internal/config"
	"github.com/skybuild/nix-provenance/internal/store"
)

func TestDependenciesPreserveStoreOrder(t *testing.T) {
	mock := &store.Mock{
		Hashes: map[string]string{
			"/nix/store/p1": "sha256:1111",
			"/nix/store/p2": "sha256:2222",
			"/nix/store/p3": "sha256:3333",
		},
		References: map[string][]string{
			"/nix/store/top.drv": {"/nix/store/p1", "/nix/store/p2", "/nix/store/p3"},
		},
	}
	g := New(mock, config.Config{})

	deps, err := g.dependencies(context.Background(), "/nix/store/top.drv", false)
	require.NoError(t, err)

	uris := make([]string, len(deps))
	for i, dep := range deps {
		uris[i] = dep.URI
	}
	assert.Equal(t, []string{"/nix/store/p1", "/nix/store/p2", "/nix/store/p3"}, uris)
}

func TestDependenciesEnrichDerivations(t *testing.T) {
	mock := &store.Mock{
		Hashes: map[string]string{
			"/nix/store/libfoo.drv": "sha256:aaaa",
			"/nix/store/libbar.drv": "sha256:bbbb",
			"/nix/store/blob":       "sha256:cccc",
		},
		References: map[string][]string{
			"/nix/store/top.drv": {"/nix/store/libfoo.drv", "/nix/store/libbar.drv", "/nix/store/blob"},
		},
		Derivations: map[string]map[string]store.Derivation{
			"/nix/store/libfoo.drv": {
				"/nix/store/libfoo.drv": {Name: "libfoo", Env: map[string]string{"version": "1.2.3"}},
			},
			"/nix/store/libbar.drv": {
				"/nix/store/libbar.drv": {Name: "libbar", Env: map[string]string{}},
			},
		},
	}
	g := New(mock, config.Config{})

	deps, err := g.dependencies(context.Background(), "/nix/store/top.drv", false)
	require.NoError(t, err)
	require.Len(t, deps, 3)

	assert.Equal(t, "libfoo", deps[0].Name)
	assert.Equal(t, map[string]any{"version": "1.2.3"}, deps[0].Annotations)

	// Derivation without a version entry gets no annotations at all.
	assert.Equal(t, "libbar", deps[1].Name)
	assert.Nil(t, deps[1].Annotations)

	// Plain artifact path: uri and digest only.
	assert.Empty(t, deps[2].Name)
	assert.Nil(t, deps[2].Annotations)
}

func TestDependenciesMissingHashIsFatal(t *testing.T) {
	mock := &store.Mock{
		References: map[string][]string{
			"/nix/store/top.drv": {"/nix/store/gone"},
		},
	}
	g := New(mock, config.Config{})

	_, err := g.dependencies(context.Background(), "/nix/store/top.drv", false)
	require.Error(t, err)
	assert.ErrorContains(t, err, "/nix/store/gone")
}

func TestDependenciesReferenceQueryFailureIsFatal(t *testing.T) {
	g := New(&store.Mock{}, config.Config{})

	_, err := g.dependencies(context.Background(), "/nix/store/top.drv", false)
	require.Error(t, err)

	var toolErr *store.ToolError
	assert.ErrorAs(t, err, &toolErr)
}

func TestDependenciesRecursiveUsesClosure(t *testing.T) {
	mock := &store.Mock{
		Hashes: map[string]string{
			"/nix/store/p1": "sha256:1111",
			"/nix/store/p2": "sha256:2222",
		},
		References: map[string][]string{
			"/nix/store/top.drv": {"/nix/store/p1"},
		},
		Requisites: map[string][]string{
			"/nix/store/top.drv": {"/nix/store/p1", "/nix/store/p2"},
		},
	}
	g := New(mock, config.Config{})

	direct, err := g.dependencies(context.Background(), "/nix/store/top.drv", false)
	require.NoError(t, err)
	assert.Len(t, direct, 1)

	closure, err := g.dependencies(context.Background(), "/nix/store/top.drv", true)
	require.NoError(t, err)
	assert.Len(t, closure, 2)
}
