package risk

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Rule assigns texts containing any of its keywords to Category.
type Rule struct {
	Category Category `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Catalog is the keyword configuration for classification plus the fallback
// table. Load it once at startup with ParseCatalog or DefaultCatalog.
//
// YAML shape:
//
//	indicators: [risk, challenge]
//	rules:
//	  - category: financial
//	    keywords: [revenue, debt]
//	fallback:
//	  industry: ["Market volatility in the sector"]
type Catalog struct {
	Indicators []string            `yaml:"indicators"`
	Rules      []Rule              `yaml:"rules"`
	Fallback   map[string][]string `yaml:"fallback"`
}

// ParseCatalog decodes and validates a YAML catalog. Keywords and indicators
// are lowercased so matching is case-insensitive.
func ParseCatalog(raw []byte) (*Catalog, error) {
	if len(raw) == 0 {
		return nil, errors.New("risk catalog: empty document")
	}

	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("risk catalog: decode: %w", err)
	}

	c.Indicators = lowerAll(c.Indicators)
	for i := range c.Rules {
		c.Rules[i].Keywords = lowerAll(c.Rules[i].Keywords)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the embedded catalog. The embedded document is part
// of the binary, so a parse failure is a programming error and panics.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Validate checks that every rule targets a known category and that the
// fallback table fills every category.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Indicators) == 0 {
		errs = append(errs, errors.New("risk catalog: indicators must not be empty"))
	}
	for i, r := range c.Rules {
		if !validCategory(r.Category) {
			errs = append(errs, fmt.Errorf("risk catalog: rules[%d]: unknown category %q", i, r.Category))
		}
		if len(r.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("risk catalog: rules[%d]: keywords must not be empty", i))
		}
	}
	for key := range c.Fallback {
		if !validCategory(Category(key)) {
			errs = append(errs, fmt.Errorf("risk catalog: fallback: unknown category %q", key))
		}
	}
	for _, cat := range Categories {
		if len(c.Fallback[string(cat)]) == 0 {
			errs = append(errs, fmt.Errorf("risk catalog: fallback: category %q has no entries", cat))
		}
	}

	return errors.Join(errs...)
}

// FallbackBuckets returns a fresh copy of the fallback table.
func (c *Catalog) FallbackBuckets() Buckets {
	out := make(Buckets, len(Categories))
	for _, cat := range Categories {
		out[cat] = append([]string{}, c.Fallback[string(cat)]...)
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
