package dashboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

func TestNewStoreOrdersByID(t *testing.T) {
	records := threeStates()
	shuffled := []model.RegionStat{records[2], records[0], records[1]}

	store, err := NewStore(shuffled)
	require.NoError(t, err)
	assert.Equal(t, []string{"AL", "CA", "NY"}, keys(store.All()))
	assert.Equal(t, 3, store.Len())
}

func TestStoreGet(t *testing.T) {
	store, err := NewStore(threeStates())
	require.NoError(t, err)

	got, ok := store.Get("CA")
	require.True(t, ok)
	assert.Equal(t, "California", got.Name)

	got, ok = store.Get(" ny ")
	require.True(t, ok)
	assert.Equal(t, "New York", got.Name)

	_, ok = store.Get("ZZ")
	assert.False(t, ok)
}

func TestStoreAllReturnsCopy(t *testing.T) {
	store, err := NewStore(threeStates())
	require.NoError(t, err)

	all := store.All()
	all[0].Count = -1

	got, _ := store.Get(all[0].Key)
	assert.Equal(t, 3280, got.Count)
}

func TestStoreVersion(t *testing.T) {
	a, err := NewStore(threeStates())
	require.NoError(t, err)
	b, err := NewStore(threeStates())
	require.NoError(t, err)
	assert.Equal(t, a.Version(), b.Version())

	changed := threeStates()
	changed[1].Count++
	c, err := NewStore(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a.Version(), c.Version())
}

func TestNewStoreRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]model.RegionStat) []model.RegionStat
		msg    string
	}{
		{
			name:   "duplicate key",
			mutate: func(r []model.RegionStat) []model.RegionStat { r[1].Key = "AL"; return r },
			msg:    "duplicate key",
		},
		{
			name:   "duplicate id",
			mutate: func(r []model.RegionStat) []model.RegionStat { r[1].ID = r[0].ID; return r },
			msg:    "duplicate id",
		},
		{
			name:   "negative count",
			mutate: func(r []model.RegionStat) []model.RegionStat { r[0].Count = -3; return r },
			msg:    "negative count",
		},
		{
			name:   "unknown status",
			mutate: func(r []model.RegionStat) []model.RegionStat { r[0].Status = "Unknown"; return r },
			msg:    "unknown status",
		},
		{
			name:   "unknown region",
			mutate: func(r []model.RegionStat) []model.RegionStat { r[0].Region = "pacific"; return r },
			msg:    "unknown region",
		},
		{
			name:   "lower-case key",
			mutate: func(r []model.RegionStat) []model.RegionStat { r[0].Key = "al"; return r },
			msg:    "upper-case",
		},
		{
			name:   "empty key",
			mutate: func(r []model.RegionStat) []model.RegionStat { r[0].Key = ""; return r },
			msg:    "empty key",
		},
		{
			name:   "empty name",
			mutate: func(r []model.RegionStat) []model.RegionStat { r[0].Name = " "; return r },
			msg:    "empty name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.mutate(threeStates()))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDataset))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestNewStoreEmpty(t *testing.T) {
	store, err := NewStore(nil)
	require.NoError(t, err)
	assert.Zero(t, store.Len())
	assert.Empty(t, store.All())
}
