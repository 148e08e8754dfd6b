package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	domainconfig "github.com/yogishpa/graph-samples/domain/config"
)

// LoadPromptCatalog reads a YAML prompt catalog. An empty path returns the
// built-in catalog; missing sections are filled from it.
func LoadPromptCatalog(path string) (*domainconfig.PromptCatalog, error) {
	if path == "" {
		return domainconfig.DefaultPromptCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt catalog %s: %w", path, err)
	}

	return ParsePromptCatalog(data)
}

// ParsePromptCatalog decodes catalog YAML
func ParsePromptCatalog(data []byte) (*domainconfig.PromptCatalog, error) {
	var catalog domainconfig.PromptCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalog: %w", err)
	}

	filled := catalog.WithDefaults()
	if err := filled.Validate(); err != nil {
		return nil, err
	}
	return filled, nil
}
