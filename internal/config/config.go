// Package config captures the PROVENANCE_* environment contract in a
// plain struct. The environment is read exactly once, at load time;
// everything downstream receives the struct explicitly and never
// touches process-wide state.
package config

import (
	"github.com/spf13/viper"
)

// Config holds the externally supplied attestation inputs. Pointer
// fields distinguish "unset" (JSON null in the document) from an
// explicitly empty value.
type Config struct {
	// Opaque identity strings, copied verbatim into the document.
	BuildType    *string
	BuilderID    *string
	InvocationID *string

	// Epoch-second strings, normalized before they enter the document.
	TimestampBegin *string
	TimestampEnd   *string

	// Raw JSON object payloads, empty string when unset.
	ExternalParams string
	InternalParams string

	// Default destination for the document; stdout when empty.
	OutputFile string
}

// Load reads the recognized PROVENANCE_* environment variables.
func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("PROVENANCE")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	return Config{
		BuildType:      lookup(v, "build_type"),
		BuilderID:      lookup(v, "builder_id"),
		InvocationID:   lookup(v, "invocation_id"),
		TimestampBegin: lookup(v, "timestamp_begin"),
		TimestampEnd:   lookup(v, "timestamp_end"),
		ExternalParams: v.GetString("external_params"),
		InternalParams: v.GetString("internal_params"),
		OutputFile:     v.GetString("output_file"),
	}
}

func lookup(v *viper.Viper, key string) *string {
	if !v.IsSet(key) {
		return nil
	}
	value := v.GetString(key)
	return &value
}
