package source

import (
	"context"
	"log/slog"

	"ReleaseRadar/internal/config"
	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/ports"
)

// StrategySource implements ports.ReleaseSource via registered fetch
// strategies. Individual source failures are logged and degrade to an empty
// contribution; they never surface to the core.
type StrategySource struct {
	registry *Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.ReleaseSource = (*StrategySource)(nil)

// NewStrategySource wires the fetcher registry with config-defined sources.
func NewStrategySource(reg *Registry, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// FetchPrimary aggregates every announcement-role source.
func (s *StrategySource) FetchPrimary(ctx context.Context) []domain.ReleaseItem {
	return s.fetchRole(ctx, RolePrimary)
}

// FetchSecondary aggregates every catalog-role source.
func (s *StrategySource) FetchSecondary(ctx context.Context) []domain.ReleaseItem {
	return s.fetchRole(ctx, RoleSecondary)
}

func (s *StrategySource) fetchRole(ctx context.Context, role Role) []domain.ReleaseItem {
	if s.registry == nil {
		return nil
	}

	var aggregated []domain.ReleaseItem
	for _, src := range s.sources {
		if Role(src.Role) != role {
			continue
		}

		strategy, err := s.registry.Resolve(src.Fetcher)
		if err != nil {
			s.warn("unknown fetcher", "source", src.Name, "fetcher", src.Fetcher)
			continue
		}

		items, err := strategy.Fetch(ctx, Request{
			SourceName: src.Name,
			URL:        src.URL,
			Options:    src.Options,
		})
		if err != nil {
			s.warn("fetch failed", "source", src.Name, "error", err)
			continue
		}

		s.debug("source produced items", "source", src.Name, "count", len(items))
		aggregated = append(aggregated, items...)
	}

	s.debug("role aggregated", "role", string(role), "total_items", len(aggregated))
	return aggregated
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
