// Package risk collects categorised risk signals for a company and sector.
// The signals are context for the narrative generator only: a naive keyword
// pass over search-result text, backed by a fixed fallback table so callers
// always receive something to work with.
package risk

import "strings"

// ─── CATEGORIES ───────────────────────────────────────────────────────────────

// Category is one of the fixed risk bucket keys.
type Category string

const (
	CategoryIndustry        Category = "industry"
	CategoryCompanySpecific Category = "company_specific"
	CategoryFinancial       Category = "financial"
	CategoryOperational     Category = "operational"
	CategoryCompliance      Category = "compliance"
	CategoryStrategic       Category = "strategic"
	CategoryReputation      Category = "reputation"
)

// Categories lists every bucket key in display order.
var Categories = []Category{
	CategoryIndustry,
	CategoryCompanySpecific,
	CategoryFinancial,
	CategoryOperational,
	CategoryCompliance,
	CategoryStrategic,
	CategoryReputation,
}

// Label returns the human-readable heading used in prompts.
func (c Category) Label() string {
	switch c {
	case CategoryIndustry:
		return "Industry Risks"
	case CategoryCompanySpecific:
		return "Company Specific Risks"
	case CategoryFinancial:
		return "Financial Risks"
	case CategoryOperational:
		return "Operational Risks"
	case CategoryCompliance:
		return "Compliance Risks"
	case CategoryStrategic:
		return "Strategic Risks"
	case CategoryReputation:
		return "Reputation Risks"
	default:
		return string(c)
	}
}

func validCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MaxPerBucket caps the number of entries kept in any one bucket.
const MaxPerBucket = 5

// ─── BUCKETS ──────────────────────────────────────────────────────────────────

// Buckets maps each category to an ordered list of short risk descriptions.
type Buckets map[Category][]string

// Total returns the number of entries across all buckets.
func (b Buckets) Total() int {
	n := 0
	for _, items := range b {
		n += len(items)
	}
	return n
}

// Empty reports whether no bucket holds an entry.
func (b Buckets) Empty() bool { return b.Total() == 0 }

// Clone returns a deep copy. Every known category is present in the copy,
// empty buckets as empty slices.
func (b Buckets) Clone() Buckets {
	out := make(Buckets, len(Categories))
	for _, c := range Categories {
		out[c] = append([]string{}, b[c]...)
	}
	return out
}

// normalize trims, deduplicates (first occurrence wins) and caps every bucket.
func (b Buckets) normalize() Buckets {
	out := make(Buckets, len(Categories))
	for _, c := range Categories {
		out[c] = dedupeAndCap(b[c], MaxPerBucket)
	}
	return out
}

// dedupeAndCap removes empty and duplicate entries, preserving order, and
// keeps at most limit of them.
func dedupeAndCap(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, min(len(values), limit))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
		if len(result) == limit {
			break
		}
	}
	return result
}
