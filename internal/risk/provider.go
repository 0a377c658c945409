package risk

import (
	"context"
	"log/slog"

	"github.com/nyashahama/audit-planner/internal/metrics"
)

// Provider returns categorised risk signals. Fetch never fails: any internal
// error is logged and answered with the catalog's fallback table, and the
// result always holds at least one entry.
type Provider interface {
	Fetch(ctx context.Context, company, sector, description string) Buckets
}

// ─── WEB PROVIDER ─────────────────────────────────────────────────────────────

// WebProvider searches for industry- and company-level risk discussions and
// buckets the result texts with the catalog's keyword rules.
type WebProvider struct {
	searcher Searcher
	catalog  *Catalog
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewWebProvider returns a Provider backed by searcher. A nil catalog uses
// DefaultCatalog; m may be nil.
func NewWebProvider(searcher Searcher, catalog *Catalog, m *metrics.Metrics, logger *slog.Logger) *WebProvider {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &WebProvider{
		searcher: searcher,
		catalog:  catalog,
		metrics:  m,
		logger:   logger,
	}
}

// Fetch runs the industry query then the company query. The description is
// not part of either query.
func (p *WebProvider) Fetch(ctx context.Context, company, sector, _ string) (buckets Buckets) {
	log := p.logger.With("company", company, "sector", sector)

	defer func() {
		if r := recover(); r != nil {
			log.Error("risk: web search panicked, using fallback risk data", "panic", r)
			buckets = p.fallback()
		}
	}()

	queries := []string{
		sector + " industry risks and challenges",
		company + " " + sector + " company risks and challenges",
	}

	var texts []string
	for _, q := range queries {
		results, err := p.searcher.Search(ctx, q)
		if err != nil {
			log.Warn("risk: web search failed, using fallback risk data", "query", q, "error", err)
			return p.fallback()
		}
		texts = append(texts, results...)
	}

	buckets = p.catalog.Collect(texts)
	if buckets.Empty() {
		log.Info("risk: no risk signals found, using fallback risk data", "results", len(texts))
		return p.fallback()
	}

	log.Debug("risk: collected risk signals", "results", len(texts), "signals", buckets.Total())
	return buckets
}

func (p *WebProvider) fallback() Buckets {
	p.metrics.IncrementRiskFallback()
	return p.catalog.FallbackBuckets()
}

// ─── STATIC PROVIDER ──────────────────────────────────────────────────────────

// StaticProvider always answers with the fallback table. Used when web search
// is disabled.
type StaticProvider struct {
	catalog *Catalog
}

// NewStaticProvider returns a StaticProvider; a nil catalog uses
// DefaultCatalog.
func NewStaticProvider(catalog *Catalog) *StaticProvider {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &StaticProvider{catalog: catalog}
}

// Fetch returns a copy of the fallback table.
func (p *StaticProvider) Fetch(_ context.Context, _, _, _ string) Buckets {
	return p.catalog.FallbackBuckets()
}
