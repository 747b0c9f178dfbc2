package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string {
	return &s
}

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		want  *string
	}{
		{name: "nil stays nil", input: nil, want: nil},
		{name: "epoch zero", input: strptr("0"), want: strptr("1970-01-01T00:00:00.00Z")},
		{name: "string integer", input: strptr("1700000000"), want: strptr("2023-11-14T22:13:20.00Z")},
		{name: "surrounding whitespace", input: strptr(" 0 \n"), want: strptr("1970-01-01T00:00:00.00Z")},
		{name: "negative epoch", input: strptr("-1"), want: strptr("1969-12-31T23:59:59.00Z")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeTimestamp(tc.input)
			require.NoError(t, err)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestNormalizeTimestampRejectsNonNumeric(t *testing.T) {
	for _, input := range []string{"yesterday", "", "12.5", "2023-11-14"} {
		_, err := normalizeTimestamp(strptr(input))
		assert.ErrorIs(t, err, ErrBadTimestamp, "input %q", input)
	}
}
