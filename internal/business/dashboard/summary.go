package dashboard

import (
	"slices"
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// TopStatesLimit is how many states the summary ranks by count.
const TopStatesLimit = 3

// Summarize reduces the full dataset into national statistics.
// Percentages are reported raw and are not forced to sum to 100.
func Summarize(records []model.RegionStat) model.SummaryStatistics {
	var total int
	var rateSum, changeSum float64
	var legal, restricted, banned int

	for _, r := range records {
		total += r.Count
		rateSum += r.Rate
		changeSum += r.Change
		switch {
		case strings.EqualFold(string(r.Status), string(model.StatusLegal)):
			legal++
		case strings.EqualFold(string(r.Status), string(model.StatusRestricted)):
			restricted++
		case strings.EqualFold(string(r.Status), string(model.StatusBanned)):
			banned++
		}
	}

	stats := model.SummaryStatistics{
		TotalCount: total,
		TopStates:  topByCount(records, TopStatesLimit),
		LegalStatus: model.StatusBreakdown{
			Legal:      model.StatusShare{Count: legal},
			Restricted: model.StatusShare{Count: restricted},
			Banned:     model.StatusShare{Count: banned},
		},
	}

	n := len(records)
	if n == 0 {
		return stats
	}
	stats.AverageRate = rateSum / float64(n)
	stats.AverageChange = changeSum / float64(n)
	stats.LegalStatus.Legal.Percentage = share(legal, n)
	stats.LegalStatus.Restricted.Percentage = share(restricted, n)
	stats.LegalStatus.Banned.Percentage = share(banned, n)
	return stats
}

func topByCount(records []model.RegionStat, limit int) []model.RegionStat {
	ranked := Sort(records, SortByCount, Descending)
	if ranked == nil {
		return []model.RegionStat{}
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return slices.Clip(ranked)
}

func share(count, n int) float64 {
	return 100 * float64(count) / float64(n)
}

func cloneSummary(s model.SummaryStatistics) model.SummaryStatistics {
	s.TopStates = slices.Clone(s.TopStates)
	return s
}
