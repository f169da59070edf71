package cli

import (
	_ "embed"
	"slices"
)

//go:embed default_config.yaml
var defaultConfigurationFile []byte

// defaultConfigurationBytes returns a copy of the embedded default
// configuration so callers cannot mutate the baked-in document.
func defaultConfigurationBytes() []byte {
	return slices.Clone(defaultConfigurationFile)
}
