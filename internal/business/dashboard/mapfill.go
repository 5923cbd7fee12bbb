package dashboard

import (
	"context"
	"log/slog"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// mapRenderer colors the features of a single map render. It lives for one call only;
// the logged flag keeps the first unresolved feature at WARN and the rest at DEBUG.
type mapRenderer struct {
	logger   *slog.Logger
	resolver *Resolver
	store    *Store
	view     model.View
	visible  map[string]model.RegionStat
	scale    Scale
	logged   bool
}

func newMapRenderer(logger *slog.Logger, resolver *Resolver, store *Store, view model.View, visible []model.RegionStat) *mapRenderer {
	byKey := make(map[string]model.RegionStat, len(visible))
	for _, r := range visible {
		byKey[r.Key] = r
	}
	return &mapRenderer{
		logger:   logger,
		resolver: resolver,
		store:    store,
		view:     view,
		visible:  byKey,
		scale:    NewScale(view, metricValues(visible, view)),
	}
}

// fill computes one feature's appearance. It reports false when the feature matched no record.
func (m *mapRenderer) fill(ctx context.Context, f model.Feature) (model.FeatureFill, bool) {
	out := model.FeatureFill{FeatureID: f.ID, Color: NeutralColor}

	key, ok := m.resolver.Resolve(f.Properties)
	if !ok {
		m.unresolved(ctx, f, "no key or known name in properties")
		return out, false
	}
	out.Key = key
	if _, known := m.store.Get(key); !known {
		m.unresolved(ctx, f, "no record for key "+key)
		return out, false
	}
	out.Resolved = true

	record, visible := m.visible[key]
	if !visible {
		return out, true
	}
	value := record.Metric(m.view)
	out.Value = &value
	out.Color = m.scale.Color(value)
	return out, true
}

func (m *mapRenderer) unresolved(ctx context.Context, f model.Feature, reason string) {
	if m.logger == nil {
		return
	}
	level := slog.LevelDebug
	if !m.logged {
		level = slog.LevelWarn
		m.logged = true
	}
	m.logger.Log(ctx, level, "map feature not matched", "featureId", f.ID, "reason", reason)
}

func (m *mapRenderer) render(ctx context.Context, features []model.Feature) model.MapResponse {
	resp := model.MapResponse{
		View:   m.view,
		Fills:  make([]model.FeatureFill, 0, len(features)),
		Legend: m.scale.Legend(),
	}
	for _, f := range features {
		fill, ok := m.fill(ctx, f)
		if !ok {
			resp.Unresolved++
		}
		resp.Fills = append(resp.Fills, fill)
	}
	return resp
}
