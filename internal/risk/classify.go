package risk

import "strings"

// Classify assigns a single search-result text to a bucket.
//
// A text that mentions none of the indicator words is not a risk signal and
// returns ok=false. Otherwise the first rule with a matching keyword wins;
// texts matching no rule land in the industry bucket when they mention
// "industry" and in the company-specific bucket otherwise.
func (c *Catalog) Classify(text string) (cat Category, ok bool) {
	lower := strings.ToLower(text)

	if !containsAny(lower, c.Indicators) {
		return "", false
	}

	for _, rule := range c.Rules {
		if containsAny(lower, rule.Keywords) {
			return rule.Category, true
		}
	}

	if strings.Contains(lower, "industry") {
		return CategoryIndustry, true
	}
	return CategoryCompanySpecific, true
}

// Collect classifies every text and returns normalised buckets: trimmed,
// deduplicated in first-seen order and capped at MaxPerBucket. Every
// category is present in the result, possibly empty.
func (c *Catalog) Collect(texts []string) Buckets {
	raw := make(Buckets, len(Categories))
	for _, text := range texts {
		cat, ok := c.Classify(text)
		if !ok {
			continue
		}
		raw[cat] = append(raw[cat], text)
	}
	return raw.normalize()
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
