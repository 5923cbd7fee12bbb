package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// SelectionNotifier is told when a user asks for a state's full details.
type SelectionNotifier interface {
	NotifySelection(ctx context.Context, stat model.RegionStat) error
}

// LogNotifier records selections in the log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) NotifySelection(ctx context.Context, stat model.RegionStat) error {
	n.Logger.InfoContext(ctx, "state selected", "stateId", stat.Key, "stateName", stat.Name)
	return nil
}

// Service answers dashboard queries over a Store.
type Service struct {
	store      *Store
	resolver   *Resolver
	summaries  *lru.Cache[string, model.SummaryStatistics]
	notifier   SelectionNotifier
	logger     *slog.Logger
	unresolved func(n int)
}

// Option customizes a Service.
type Option func(*serviceConfig)

type serviceConfig struct {
	resolver   *Resolver
	notifier   SelectionNotifier
	logger     *slog.Logger
	cacheSize  int
	unresolved func(n int)
}

// WithResolver replaces the default geographic key resolver.
func WithResolver(r *Resolver) Option {
	return func(c *serviceConfig) { c.resolver = r }
}

// WithNotifier sets the selection notifier. The default logs.
func WithNotifier(n SelectionNotifier) Option {
	return func(c *serviceConfig) { c.notifier = n }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = l }
}

// WithSummaryCacheSize sets how many dataset versions keep a memoized summary.
func WithSummaryCacheSize(n int) Option {
	return func(c *serviceConfig) { c.cacheSize = n }
}

// WithUnresolvedHook is called after each map render with the number of unmatched features.
func WithUnresolvedHook(fn func(n int)) Option {
	return func(c *serviceConfig) { c.unresolved = fn }
}

func NewService(store *Store, opts ...Option) (*Service, error) {
	cfg := serviceConfig{cacheSize: 8}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.resolver == nil {
		cfg.resolver = NewResolver(nil)
	}
	if cfg.notifier == nil {
		cfg.notifier = LogNotifier{Logger: cfg.logger}
	}
	if cfg.cacheSize <= 0 {
		cfg.cacheSize = 1
	}

	cache, err := lru.New[string, model.SummaryStatistics](cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("init summary cache: %w", err)
	}

	return &Service{
		store:      store,
		resolver:   cfg.resolver,
		summaries:  cache,
		notifier:   cfg.notifier,
		logger:     cfg.logger,
		unresolved: cfg.unresolved,
	}, nil
}

// All returns every record in id order.
func (s *Service) All() []model.RegionStat {
	return s.store.All()
}

// Len is the dataset size.
func (s *Service) Len() int {
	return s.store.Len()
}

// ListFiltered returns the matching records ranked by the criteria's view.
func (s *Service) ListFiltered(c FilterCriteria) []model.RegionStat {
	return RankByView(c.Apply(s.store.All()), c.View)
}

// List returns the matching records in the given order, or ranked by view when spec is nil.
func (s *Service) List(c FilterCriteria, spec *SortSpec) []model.RegionStat {
	if spec == nil {
		return s.ListFiltered(c)
	}
	return SortBy(c.Apply(s.store.All()), *spec)
}

// Table returns one page of the matching records in the given order.
func (s *Service) Table(c FilterCriteria, spec SortSpec, page, pageSize int) model.Page {
	return Paginate(SortBy(c.Apply(s.store.All()), spec), page, pageSize)
}

// Summary returns national statistics over the whole dataset. Filters never apply.
func (s *Service) Summary() model.SummaryStatistics {
	version := s.store.Version()
	if cached, ok := s.summaries.Get(version); ok {
		return cloneSummary(cached)
	}
	stats := Summarize(s.store.All())
	s.summaries.Add(version, stats)
	return cloneSummary(stats)
}

// GetByKey returns the record for key. Absence is reported with false.
func (s *Service) GetByKey(key string) (model.RegionStat, bool) {
	return s.store.Get(key)
}

// Select notifies the selection notifier about a state and returns its record.
func (s *Service) Select(ctx context.Context, key string) (model.RegionStat, bool, error) {
	stat, ok := s.store.Get(key)
	if !ok {
		return model.RegionStat{}, false, nil
	}
	if err := s.notifier.NotifySelection(ctx, stat); err != nil {
		return stat, true, fmt.Errorf("notify selection %s: %w", stat.Key, err)
	}
	return stat, true, nil
}

// Legend returns the color legend for the records visible under c.
func (s *Service) Legend(c FilterCriteria) model.Legend {
	visible := c.Apply(s.store.All())
	return NewScale(c.View, metricValues(visible, c.View)).Legend()
}

// MapFills colors each feature for the records visible under c. Features that match
// no record get NeutralColor and are counted in Unresolved; they never fail the render.
func (s *Service) MapFills(ctx context.Context, c FilterCriteria, features []model.Feature) model.MapResponse {
	visible := c.Apply(s.store.All())
	resp := newMapRenderer(s.logger, s.resolver, s.store, c.View, visible).render(ctx, features)
	if s.unresolved != nil {
		s.unresolved(resp.Unresolved)
	}
	return resp
}
