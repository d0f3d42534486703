// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

const (
	catalogKeyPrefix = "catalog_"
	companyKeyPrefix = "company_"
)

var (
	ErrNoCatalog        = errors.New("no catalog found")
	ErrIndexOutOfRange  = errors.New("catalog index out of range")
	ErrInvalidJSONQuery = errors.New("query requires a JSON document")
)

// ID is a catalog or company identifier. Source files may spell it as a number
// or a string; it is always carried as a string.
type ID string

// UnmarshalYAML accepts any scalar node as an ID.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("id must be a scalar, got %v at line %d", value.Tag, value.Line)
	}
	*id = ID(value.Value)
	return nil
}

// Company is a single catalog entry. Logo is optional.
type Company struct {
	ID   ID     `yaml:"id" json:"id"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Logo string `yaml:"logo,omitempty" json:"logo,omitempty"`
}

// Catalog is a named collection of companies. A nil Companies slice means the
// catalog was never populated, which is distinct from an empty one.
type Catalog struct {
	ID        ID        `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Logo      string    `yaml:"logo,omitempty" json:"logo,omitempty"`
	Companies []Company `yaml:"companies" json:"companies"`
}

// Slot is one logo-bearing entity of a catalog together with the cache key it
// is stored under.
type Slot struct {
	Key  string
	Path string
}

// CatalogKey returns the cache key of a catalog's own logo.
func CatalogKey(id ID) string {
	return catalogKeyPrefix + string(id)
}

// CompanyKey returns the cache key of a company logo.
func CompanyKey(id ID) string {
	return companyKeyPrefix + string(id)
}

// Valid reports whether c can be preloaded at all.
func (c *Catalog) Valid() bool {
	return c != nil && c.Companies != nil
}

// LogoSlots returns the catalog logo (if any) followed by every company logo,
// in catalog order. Entities without a logo are skipped.
func (c *Catalog) LogoSlots() []Slot {
	if c == nil {
		return nil
	}

	var slots []Slot
	if c.Logo != "" {
		slots = append(slots, Slot{Key: CatalogKey(c.ID), Path: c.Logo})
	}
	for _, company := range c.Companies {
		if company.Logo != "" {
			slots = append(slots, Slot{Key: CompanyKey(company.ID), Path: company.Logo})
		}
	}
	return slots
}

// Keys returns the cache keys of LogoSlots.
func (c *Catalog) Keys() []string {
	slots := c.LogoSlots()
	keys := make([]string, 0, len(slots))
	for _, s := range slots {
		keys = append(keys, s.Key)
	}
	return keys
}

// document is the wrapped form of a catalogs file.
type document struct {
	Catalogs []Catalog `yaml:"catalogs"`
}

// Parse decodes raw into catalogs. raw may be YAML or JSON and hold a single
// catalog, a list of catalogs, or a mapping with a "catalogs" list.
func Parse(raw []byte) ([]Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to parse catalog document: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, ErrNoCatalog
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var catalogs []Catalog
		if err := node.Decode(&catalogs); err != nil {
			return nil, fmt.Errorf("failed to decode catalog list: %w", err)
		}
		return catalogs, nil
	case yaml.MappingNode:
		if hasKey(node, "catalogs") {
			var doc document
			if err := node.Decode(&doc); err != nil {
				return nil, fmt.Errorf("failed to decode catalogs: %w", err)
			}
			return doc.Catalogs, nil
		}
		var c Catalog
		if err := node.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		return []Catalog{c}, nil
	default:
		return nil, fmt.Errorf("unexpected document shape at line %d: %w", node.Line, ErrNoCatalog)
	}
}

// Select narrows raw to the sub-document addressed by query, a gjson path such
// as "catalogs.1" or `catalogs.#(name=="Speciality")`. An empty query returns
// raw unchanged. Queries are only supported on JSON documents.
func Select(raw []byte, query string) ([]byte, error) {
	if query == "" {
		return raw, nil
	}
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSONQuery
	}

	result := gjson.GetBytes(raw, query)
	if !result.Exists() {
		return nil, fmt.Errorf("query %q matched nothing: %w", query, ErrNoCatalog)
	}
	log.Debugf("query %q selected %d bytes", query, len(result.Raw))
	return []byte(result.Raw), nil
}

// Load reads path, applies query and returns the catalog at index.
func Load(path string, query string, index int) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	raw, err = Select(raw, query)
	if err != nil {
		return nil, err
	}

	catalogs, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if len(catalogs) == 0 {
		return nil, ErrNoCatalog
	}
	if index < 0 || index >= len(catalogs) {
		return nil, fmt.Errorf("index %d of %d catalogs: %w", index, len(catalogs), ErrIndexOutOfRange)
	}

	c := catalogs[index]
	log.Debugf("loaded catalog %s (%s) with %d companies", c.ID, c.Name, len(c.Companies))
	return &c, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
