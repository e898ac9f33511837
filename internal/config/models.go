package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

type ModelInfo struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Hint  string `yaml:"hint,omitempty"`
}

// ModelCatalog is the list of suggested Groq models shown by `dash model`.
type ModelCatalog struct {
	Default string      `yaml:"default"`
	Docs    string      `yaml:"docs"`
	Models  []ModelInfo `yaml:"models"`
}

func LoadModelCatalog() (*ModelCatalog, error) {
	return parseModelCatalog(modelsYAML)
}

func parseModelCatalog(data []byte) (*ModelCatalog, error) {
	var catalog ModelCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("error decoding model catalog: %w", err)
	}
	if catalog.Default == "" {
		catalog.Default = DefaultModel
	}
	return &catalog, nil
}

// Find returns the catalog entry for id, if listed.
func (c *ModelCatalog) Find(id string) (ModelInfo, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}
