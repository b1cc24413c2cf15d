// Package phrases loads the say-phrase catalog presented by the UI.
package phrases

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Phrase is one canned phrase the robot can speak. The ID travels as the
// say_phrase value; the robot maps it to its audio file.
type Phrase struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Catalog is the full phrase list.
type Catalog struct {
	Phrases []Phrase `yaml:"phrases" json:"phrases"`
}

// Load reads the catalog from disk. A missing file yields an empty catalog;
// entries without an ID are rejected.
func Load(path string) (Catalog, error) {
	var c Catalog
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, p := range c.Phrases {
		if p.ID == "" {
			return Catalog{}, fmt.Errorf("parse %s: phrase %d has no id", path, i)
		}
	}
	return c, nil
}
