package provenance

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadParameters signals a malformed environment-supplied parameter
// payload. Always fatal: a half-parsed parameter set must never end up
// in a published attestation.
var ErrBadParameters = errors.New("malformed parameters payload")

// externalParameters parses the externally supplied parameter object,
// forces the `derivation` key to the resolved derivation path and
// drops every entry with an empty value. An unset payload is an empty
// object, not an error.
func externalParameters(raw, drvPath string) (map[string]any, error) {
	params, err := parseParams(raw)
	if err != nil {
		return nil, fmt.Errorf("external parameters: %w", err)
	}

	// The derivation path always wins over a same-named supplied key.
	params["derivation"] = drvPath

	for key, value := range params {
		if !truthy(value) {
			delete(params, key)
		}
	}
	return params, nil
}

// internalParameters parses the internal parameter object verbatim.
func internalParameters(raw string) (map[string]any, error) {
	params, err := parseParams(raw)
	if err != nil {
		return nil, fmt.Errorf("internal parameters: %w", err)
	}
	return params, nil
}

func parseParams(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	params := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadParameters, err)
	}
	return params, nil
}

// truthy mirrors JSON value emptiness: null, false, 0, "", [] and {}
// are all considered empty.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
