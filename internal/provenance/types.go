package provenance

import (
	"encoding/json"
	"io"

	"github.com/in-toto/in-toto-golang/in_toto/slsa_provenance/common"
)

// Statement and predicate shapes per the in-toto Statement v1 and SLSA
// Provenance v1 specs. Declared locally instead of reusing the
// in_toto/slsa_provenance/v1 structs: provenance consumers of this
// tool expect every field of the document to be present, including
// null builder ids and empty dependency arrays, and the upstream
// omitempty tags would drop them.

const (
	// StatementType identifies the in-toto Statement v1 layer.
	StatementType = "https://in-toto.io/Statement/v1"
	// PredicateSLSAProvenance identifies the SLSA Provenance v1 predicate.
	PredicateSLSAProvenance = "https://slsa.dev/provenance/v1"
)

// Statement is the root attestation document.
type Statement struct {
	Type          string    `json:"_type"`
	Subject       []Subject `json:"subject"`
	PredicateType string    `json:"predicateType"`
	Predicate     Predicate `json:"predicate"`
}

// Subject identifies one produced artifact and its content digest.
type Subject struct {
	Name   string           `json:"name"`
	URI    string           `json:"uri"`
	Digest common.DigestSet `json:"digest"`
}

// Predicate is the SLSA provenance payload.
type Predicate struct {
	BuildDefinition BuildDefinition `json:"buildDefinition"`
	RunDetails      RunDetails      `json:"runDetails"`
}

// BuildDefinition describes the inputs to the build.
type BuildDefinition struct {
	BuildType            *string              `json:"buildType"`
	ExternalParameters   map[string]any       `json:"externalParameters"`
	InternalParameters   map[string]any       `json:"internalParameters"`
	ResolvedDependencies []ResourceDescriptor `json:"resolvedDependencies"`
}

// ResourceDescriptor identifies one build-time dependency. Name and
// annotations are set only for dependencies that are derivations
// themselves.
type ResourceDescriptor struct {
	URI         string           `json:"uri"`
	Digest      common.DigestSet `json:"digest"`
	Name        string           `json:"name,omitempty"`
	Annotations map[string]any   `json:"annotations,omitempty"`
}

// RunDetails describes this particular execution of the build.
type RunDetails struct {
	Builder    Builder              `json:"builder"`
	Metadata   BuildMetadata        `json:"metadata"`
	Byproducts []ResourceDescriptor `json:"byproducts"`
}

// Builder identifies the entity that executed the build.
type Builder struct {
	ID                  *string              `json:"id"`
	BuilderDependencies []ResourceDescriptor `json:"builderDependencies"`
	Version             map[string]string    `json:"version"`
}

// BuildMetadata carries invocation identity and timing.
type BuildMetadata struct {
	InvocationID *string `json:"invocationId"`
	StartedOn    *string `json:"startedOn"`
	FinishedOn   *string `json:"finishedOn"`
}

// Encode writes the document as 2-space-indented JSON with HTML
// escaping disabled, followed by a newline. The encoding is fully
// deterministic for a fixed store snapshot and environment.
func (s *Statement) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
