package routine

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog maps a level and goal to an ordered base list of exercises.
//
// A Catalog is read-only after loading and safe for concurrent use.
type Catalog struct {
	routines     map[Level]map[Goal][]Descriptor
	descriptions map[string]string
}

type catalogDocument struct {
	Routines  map[string]map[string][]string `yaml:"routines"`
	Exercises map[string]string              `yaml:"exercises"`
}

//nolint:gochecknoglobals // parsed once on first use.
var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalogYAML))
})

// DefaultCatalog returns the built-in exercise catalog.
func DefaultCatalog() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog parses a YAML catalog document.
//
// Every level and goal key must be known, every list must contain at least one exercise, and every exercise
// must be in the descriptor text format.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc catalogDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Routines) == 0 {
		return nil, fmt.Errorf("catalog has no routines")
	}

	c := &Catalog{
		routines:     make(map[Level]map[Goal][]Descriptor, len(doc.Routines)),
		descriptions: make(map[string]string, len(doc.Exercises)),
	}
	for levelKey, goals := range doc.Routines {
		level, err := ParseLevel(levelKey)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		c.routines[level] = make(map[Goal][]Descriptor, len(goals))
		for goalKey, labels := range goals {
			goal, err := ParseGoal(goalKey)
			if err != nil {
				return nil, fmt.Errorf("catalog %s: %w", level, err)
			}
			if len(labels) == 0 {
				return nil, fmt.Errorf("catalog %s/%s: no exercises", level, goal)
			}
			list := make([]Descriptor, 0, len(labels))
			for _, label := range labels {
				d, err := ParseDescriptor(label)
				if err != nil {
					return nil, fmt.Errorf("catalog %s/%s: %w", level, goal, err)
				}
				list = append(list, d)
			}
			c.routines[level][goal] = list
		}
	}
	for name, description := range doc.Exercises {
		c.descriptions[strings.ToLower(name)] = strings.TrimSpace(description)
	}
	return c, nil
}

// Lookup returns a copy of the base list for level and goal.
func (c *Catalog) Lookup(level Level, goal Goal) ([]Descriptor, error) {
	goals, ok := c.routines[level]
	if !ok {
		return nil, &InvalidSelectionError{Field: "level", Value: string(level)}
	}
	list, ok := goals[goal]
	if !ok {
		return nil, &InvalidSelectionError{Field: "goal", Value: string(goal)}
	}
	return slices.Clone(list), nil
}

// Description returns the markdown description of the named exercise. Matching is case-insensitive.
func (c *Catalog) Description(name string) (string, bool) {
	d, ok := c.descriptions[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Entry is one base list of the catalog.
type Entry struct {
	Level     Level
	Goal      Goal
	Exercises []Descriptor
}

// Entries lists the catalog in level then goal order.
func (c *Catalog) Entries() []Entry {
	var entries []Entry
	for _, level := range Levels {
		for _, goal := range Goals {
			if list, ok := c.routines[level][goal]; ok {
				entries = append(entries, Entry{Level: level, Goal: goal, Exercises: slices.Clone(list)})
			}
		}
	}
	return entries
}
