package provenance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadTimestamp signals a timestamp value that cannot be read as a
// unix epoch integer.
var ErrBadTimestamp = errors.New("invalid timestamp")

// Two fractional digits, always UTC. The trailing Z is literal: the
// value is formatted from a UTC time, never from a local offset.
const timestampLayout = "2006-01-02T15:04:05.00Z"

// normalizeTimestamp converts an environment-supplied epoch value into
// the fixed-precision UTC form used in the document. A nil input stays
// nil, which serializes as JSON null.
func normalizeTimestamp(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	epoch, err := strconv.ParseInt(strings.TrimSpace(*value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadTimestamp, *value)
	}
	formatted := time.Unix(epoch, 0).UTC().Format(timestampLayout)
	return &formatted, nil
}
