package dashboard

import (
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// Filter returns the records matching every active constraint, in input order.
// An empty or "all" region/status is no constraint; search is trimmed and matched
// case-insensitively against the name and key.
func Filter(records []model.RegionStat, region model.Region, status model.Status, search string) []model.RegionStat {
	matchRegion := !isAll(string(region))
	matchStatus := !isAll(string(status))
	term := strings.ToLower(strings.TrimSpace(search))

	out := make([]model.RegionStat, 0, len(records))
	for _, r := range records {
		if matchRegion && !strings.EqualFold(string(r.Region), string(region)) {
			continue
		}
		if matchStatus && !strings.EqualFold(string(r.Status), string(status)) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Name), term) &&
			!strings.Contains(strings.ToLower(r.Key), term) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Apply filters records by the criteria.
func (c FilterCriteria) Apply(records []model.RegionStat) []model.RegionStat {
	return Filter(records, c.Region, c.Status, c.Search)
}
