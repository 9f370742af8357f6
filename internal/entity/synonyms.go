package entity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kasbot/internal/models"
)

// synonymsFile is the YAML shape of a synonym override file:
//
//	entities:
//	  - entity: item_name
//	    headers: [item, nama, barang]
type synonymsFile struct {
	Entities []struct {
		Entity  string   `yaml:"entity"`
		Headers []string `yaml:"headers"`
	} `yaml:"entities"`
}

// LoadSynonyms reads a synonym table from a YAML file. Entity order in the
// file becomes resolution priority order. An empty path returns the built-in
// table.
func LoadSynonyms(path string) ([]Synonyms, error) {
	if path == "" {
		return DefaultSynonyms, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms file: %w", err)
	}

	var file synonymsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse synonyms file %s: %w", path, err)
	}
	if len(file.Entities) == 0 {
		return nil, fmt.Errorf("synonyms file %s defines no entities", path)
	}

	table := make([]Synonyms, 0, len(file.Entities))
	for _, e := range file.Entities {
		if e.Entity == "" || len(e.Headers) == 0 {
			return nil, fmt.Errorf("synonyms file %s: entry for %q needs an entity and at least one header", path, e.Entity)
		}
		table = append(table, Synonyms{
			Entity:  models.Entity(e.Entity),
			Headers: e.Headers,
		})
	}
	return table, nil
}
