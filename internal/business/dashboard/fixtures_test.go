package dashboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

func threeStates() []model.RegionStat {
	return []model.RegionStat{
		{ID: 1, Key: "AL", Name: "Alabama", Count: 3280, Rate: 3.4, Change: -87.4, Status: model.StatusBanned, Region: model.RegionSouth, Year: 2023},
		{ID: 5, Key: "CA", Name: "California", Count: 154060, Rate: 19.2, Change: 4.2, Status: model.StatusLegal, Region: model.RegionWest, Year: 2023},
		{ID: 32, Key: "NY", Name: "New York", Count: 110830, Rate: 26.3, Change: 2.8, Status: model.StatusLegal, Region: model.RegionNortheast, Year: 2023},
	}
}

func sampleStates() []model.RegionStat {
	return []model.RegionStat{
		{ID: 1, Key: "AL", Name: "Alabama", Count: 3280, Rate: 3.4, Change: -87.4, Status: model.StatusBanned, Region: model.RegionSouth, Year: 2023},
		{ID: 3, Key: "AZ", Name: "Arizona", Count: 13450, Rate: 9.3, Change: -1.2, Status: model.StatusRestricted, Region: model.RegionWest, Year: 2023},
		{ID: 5, Key: "CA", Name: "California", Count: 154060, Rate: 19.2, Change: 4.2, Status: model.StatusLegal, Region: model.RegionWest, Year: 2023},
		{ID: 6, Key: "CO", Name: "Colorado", Count: 21570, Rate: 18.6, Change: 33.2, Status: model.StatusLegal, Region: model.RegionWest, Year: 2023},
		{ID: 11, Key: "HI", Name: "Hawaii", Count: 2450, Rate: 9.3, Change: 0.9, Status: model.StatusLegal, Region: model.RegionWest, Year: 2023},
		{ID: 14, Key: "IN", Name: "Indiana", Count: 8170, Rate: 6.2, Change: -0.9, Status: model.StatusRestricted, Region: model.RegionMidwest, Year: 2023},
		{ID: 32, Key: "NY", Name: "New York", Count: 110830, Rate: 26.3, Change: 2.8, Status: model.StatusLegal, Region: model.RegionNortheast, Year: 2023},
		{ID: 35, Key: "OH", Name: "Ohio", Count: 21570, Rate: 9.5, Change: -2.1, Status: model.StatusRestricted, Region: model.RegionMidwest, Year: 2023},
		{ID: 43, Key: "TX", Name: "Texas", Count: 2870, Rate: 0.5, Change: -92.3, Status: model.StatusBanned, Region: model.RegionSouth, Year: 2023},
	}
}

func keys(records []model.RegionStat) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Key
	}
	return out
}

func newTestService(t *testing.T, records []model.RegionStat, opts ...Option) *Service {
	t.Helper()
	store, err := NewStore(records)
	require.NoError(t, err)
	svc, err := NewService(store, opts...)
	require.NoError(t, err)
	return svc
}
