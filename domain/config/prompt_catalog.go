package config

import "errors"

// PromptCatalog holds the text used to steer query generation along with the
// fixed queries the tools fall back to or use for exploration.
type PromptCatalog struct {
	// Dataset names the graph the prompts describe
	Dataset string `yaml:"dataset" json:"dataset"`

	// Schema lines describe node labels, relationships and properties
	Schema []string `yaml:"schema" json:"schema"`

	// Examples are few-shot OpenCypher queries
	Examples []string `yaml:"examples" json:"examples"`

	// ConnectionTest is run by the connection check
	ConnectionTest string `yaml:"connection_test" json:"connection_test"`

	// Exploration maps a section name to the OpenCypher query that fills it
	Exploration map[string]string `yaml:"exploration" json:"exploration"`

	// GremlinFallback is used when the parameter store has no query
	GremlinFallback string `yaml:"gremlin_fallback" json:"gremlin_fallback"`
}

// DefaultPromptCatalog describes the air-routes sample dataset
func DefaultPromptCatalog() *PromptCatalog {
	return &PromptCatalog{
		Dataset: "airroutes",
		Schema: []string{
			"Nodes have label 'airport'. Relationships are 'route' between airports.",
			"There are NO separate country nodes - country is a property of airport nodes.",
			"Airport properties include: code, icao, desc, region, runways, country, city, lat, lon, continent, elev",
			"Route properties include: dist (distance)",
		},
		Examples: []string{
			"MATCH (n:airport) RETURN n.code, n.city LIMIT 5",
			"MATCH (a1:airport)-[r:route]->(a2:airport) RETURN a1.code, a2.code, r.dist LIMIT 5",
			"MATCH (a:airport) WHERE a.country = 'US' RETURN a.code, a.city LIMIT 5",
			"MATCH (a:airport) WHERE a.country = 'DE' RETURN a.code, a.city LIMIT 5",
			"MATCH (a1:airport)-[r:route]->(a2:airport) WHERE a1.country = 'US' AND a2.country = 'CA' RETURN a1.code, a2.code, r.dist LIMIT 5",
		},
		ConnectionTest: "MATCH (n:airport) RETURN n.code LIMIT 1",
		Exploration: map[string]string{
			"labels":          "MATCH (n) RETURN DISTINCT labels(n) LIMIT 10",
			"relationships":   "MATCH ()-[r]->() RETURN DISTINCT type(r) LIMIT 10",
			"airport_sample":  "MATCH (a:airport) RETURN a LIMIT 1",
			"countries":       "MATCH (a:airport) RETURN DISTINCT a.country LIMIT 10",
			"german_airports": "MATCH (a:airport) WHERE a.country = 'DE' RETURN a.code, a.city LIMIT 5",
		},
		GremlinFallback: "g.V().limit(1)",
	}
}

// Validate checks that the catalog can drive the tools
func (c *PromptCatalog) Validate() error {
	if c.Dataset == "" {
		return errors.New("prompt catalog: dataset is required")
	}
	if len(c.Schema) == 0 {
		return errors.New("prompt catalog: schema is required")
	}
	if c.ConnectionTest == "" {
		return errors.New("prompt catalog: connection_test is required")
	}
	return nil
}

// WithDefaults fills empty sections from the default catalog
func (c *PromptCatalog) WithDefaults() *PromptCatalog {
	def := DefaultPromptCatalog()
	out := *c
	if out.Dataset == "" {
		out.Dataset = def.Dataset
	}
	if len(out.Schema) == 0 {
		out.Schema = def.Schema
	}
	if len(out.Examples) == 0 {
		out.Examples = def.Examples
	}
	if out.ConnectionTest == "" {
		out.ConnectionTest = def.ConnectionTest
	}
	if len(out.Exploration) == 0 {
		out.Exploration = def.Exploration
	}
	if out.GremlinFallback == "" {
		out.GremlinFallback = def.GremlinFallback
	}
	return &out
}

// Catalog returns c so a fixed catalog can stand in for a reloading one
func (c *PromptCatalog) Catalog() *PromptCatalog {
	return c
}
