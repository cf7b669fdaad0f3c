package usecase

import (
	"maps"
	"strings"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
)

// DescribeContract builds the descriptor for variant on network. Argument
// values come from the network's configured addresses, overlaid by
// overrides (--arg name=value).
func DescribeContract(contract config.ContractConfig, network *config.Network, variant string, overrides map[string]string) (*models.ContractDescriptor, error) {
	values := make(map[string]string)
	if network != nil {
		maps.Copy(values, network.Addresses)
	}
	for name, value := range overrides {
		values[strings.ToLower(name)] = value
	}

	return models.BuildDescriptor(contract.Name, artifactRef(contract), variant, values)
}

func artifactRef(contract config.ContractConfig) models.ArtifactRef {
	return models.ArtifactRef{
		Path:       contract.Artifact,
		SourceName: contract.Source,
	}
}
