package models

import (
	"fmt"
	"strings"

	"github.com/trebuchet-org/lvgdeploy/internal/domain"
)

// ArtifactRef points at a compiled artifact produced by the build tool
type ArtifactRef struct {
	Path       string `json:"path" yaml:"path"`                                 // e.g. artifacts/contracts/Leverager.sol/Leverager.json
	SourceName string `json:"sourceName,omitempty" yaml:"sourceName,omitempty"` // e.g. contracts/Leverager.sol
}

// ContractDescriptor is a versioned, deployable description of the contract
type ContractDescriptor struct {
	ContractName string
	Artifact     ArtifactRef
	ArgSpec      ArgSpec
}

// Variant returns the constructor signature of the descriptor
func (d *ContractDescriptor) Variant() Variant {
	return d.ArgSpec.Variant()
}

// Args returns the ordered constructor arguments
func (d *ContractDescriptor) Args() []ConstructorArg {
	return d.ArgSpec.Args()
}

// BuildDescriptor builds a descriptor for variant from the supplied argument
// values. Every argument the variant declares must be non-blank.
func BuildDescriptor(contractName string, artifact ArtifactRef, variant string, values map[string]string) (*ContractDescriptor, error) {
	spec, err := LookupVariant(variant)
	if err != nil {
		return nil, err
	}

	trimmed := make(map[string]string, len(values))
	for k, v := range values {
		trimmed[strings.ToLower(k)] = strings.TrimSpace(v)
	}

	argSpec := spec.Build(trimmed)

	var blank []string
	for _, arg := range argSpec.Args() {
		if arg.Value == "" {
			blank = append(blank, arg.Name)
		}
	}
	if len(blank) > 0 {
		return nil, domain.NewError(domain.ErrIncompleteArguments,
			fmt.Sprintf("%s requires non-empty %s", spec.Variant, strings.Join(blank, ", ")), nil)
	}

	return &ContractDescriptor{
		ContractName: contractName,
		Artifact:     artifact,
		ArgSpec:      argSpec,
	}, nil
}
