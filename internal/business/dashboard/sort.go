package dashboard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// SortMetric is a sortable table column.
type SortMetric string

const (
	SortByName   SortMetric = "name"
	SortByCount  SortMetric = "count"
	SortByRate   SortMetric = "rate"
	SortByChange SortMetric = "change"
	SortByStatus SortMetric = "status"
)

// SortMetrics lists every sortable column.
var SortMetrics = []SortMetric{SortByName, SortByCount, SortByRate, SortByChange, SortByStatus}

// SortDirection orders a sort.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortSpec pairs a column with a direction.
type SortSpec struct {
	Metric    SortMetric
	Direction SortDirection
}

// DefaultSort is name ascending.
func DefaultSort() SortSpec {
	return SortSpec{Metric: SortByName, Direction: Ascending}
}

// RankSpec is the default ordering for a view: its metric, largest first.
func RankSpec(view model.View) SortSpec {
	switch view {
	case model.ViewRate:
		return SortSpec{Metric: SortByRate, Direction: Descending}
	case model.ViewPercentage:
		return SortSpec{Metric: SortByChange, Direction: Descending}
	default:
		return SortSpec{Metric: SortByCount, Direction: Descending}
	}
}

// Sort returns a sorted copy of records. Equal elements keep their input order
// in both directions so pagination is deterministic.
func Sort(records []model.RegionStat, metric SortMetric, direction SortDirection) []model.RegionStat {
	out := slices.Clone(records)
	compare := comparator(metric)
	if direction == Descending {
		slices.SortStableFunc(out, func(a, b model.RegionStat) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// SortBy applies a SortSpec.
func SortBy(records []model.RegionStat, spec SortSpec) []model.RegionStat {
	return Sort(records, spec.Metric, spec.Direction)
}

// RankByView orders records by the view's metric, descending.
func RankByView(records []model.RegionStat, view model.View) []model.RegionStat {
	return SortBy(records, RankSpec(view))
}

func comparator(metric SortMetric) func(a, b model.RegionStat) int {
	switch metric {
	case SortByCount:
		return func(a, b model.RegionStat) int { return cmp.Compare(a.Count, b.Count) }
	case SortByRate:
		return func(a, b model.RegionStat) int { return cmp.Compare(a.Rate, b.Rate) }
	case SortByChange:
		return func(a, b model.RegionStat) int { return cmp.Compare(a.Change, b.Change) }
	case SortByStatus:
		return func(a, b model.RegionStat) int { return strings.Compare(string(a.Status), string(b.Status)) }
	default:
		return func(a, b model.RegionStat) int { return strings.Compare(a.Name, b.Name) }
	}
}
