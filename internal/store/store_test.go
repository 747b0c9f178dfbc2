package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDigest(t *testing.T) {
	tests := []struct {
		input   string
		algo    string
		value   string
		wantErr bool
	}{
		{input: "sha256:deadbeef", algo: "sha256", value: "deadbeef"},
		{input: "sha256:dead:beef", algo: "sha256", value: "dead:beef"},
		{input: "sha256:deadbeef\n", algo: "sha256", value: "deadbeef"},
		{input: "deadbeef", wantErr: true},
		{input: ":deadbeef", wantErr: true},
		{input: "sha256:", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tc := range tests {
		algo, value, err := SplitDigest(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.algo, algo)
		assert.Equal(t, tc.value, value)
	}
}

func TestIsDerivation(t *testing.T) {
	assert.True(t, IsDerivation("/nix/store/abc-hello.drv"))
	assert.False(t, IsDerivation("/nix/store/abc-hello"))
	assert.False(t, IsDerivation("/nix/store/abc-hello.drv.chroot"))
}

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{
		Args:   []string{"nix-store", "--query", "--hash", "/nix/store/x"},
		Stderr: "error: path '/nix/store/x' is not valid\n",
		Err:    errors.New("exit status 1"),
	}
	assert.Equal(t,
		"store query failed: nix-store --query --hash /nix/store/x: error: path '/nix/store/x' is not valid",
		err.Error())
}

func TestMockHashNotFound(t *testing.T) {
	m := &Mock{}
	_, err := m.QueryHash(context.Background(), "/nix/store/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, toolErr.Stderr, "/nix/store/missing")
}

func TestBuildUnitVersion(t *testing.T) {
	unit := &BuildUnit{Env: map[string]string{"version": "9.1"}}
	assert.Equal(t, "9.1", unit.Version())

	unit = &BuildUnit{Env: map[string]string{}}
	assert.Empty(t, unit.Version())
}
