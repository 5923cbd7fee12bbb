package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "CA", DocumentID(model.RegionStat{ID: 5, Key: " ca "}))
	assert.Equal(t, "id-7", DocumentID(model.RegionStat{ID: 7}))
}

func TestNewRegionStatRepositoryDefaultsCollection(t *testing.T) {
	assert.Equal(t, DefaultCollection, NewRegionStatRepository(nil, "").Collection())
	assert.Equal(t, "stats_2024", NewRegionStatRepository(nil, "stats_2024").Collection())
}
