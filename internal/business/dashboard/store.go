package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
	"github.com/weiwei-tsao/state-stats-dashboard/pkg/util"
)

// ErrInvalidDataset wraps every dataset invariant violation found by NewStore.
var ErrInvalidDataset = errors.New("invalid dataset")

// Store holds the dataset in memory. It is never written after NewStore returns,
// so concurrent readers need no locking.
type Store struct {
	records []model.RegionStat
	byKey   map[string]int
	version string
}

// NewStore validates records and indexes them by key. Records are kept in id order.
func NewStore(records []model.RegionStat) (*Store, error) {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.RegionStat) int { return a.ID - b.ID })

	var errs []error
	byKey := make(map[string]int, len(sorted))
	ids := make(map[int]bool, len(sorted))
	for i, r := range sorted {
		key := model.NormalizeKey(r.Key)
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("record id %d: empty key", r.ID))
			continue
		case key != r.Key:
			errs = append(errs, fmt.Errorf("record %q: key must be upper-case without spaces", r.Key))
		}
		if _, dup := byKey[key]; dup {
			errs = append(errs, fmt.Errorf("record %q: duplicate key", key))
		}
		if ids[r.ID] {
			errs = append(errs, fmt.Errorf("record %q: duplicate id %d", key, r.ID))
		}
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Errorf("record %q: empty name", key))
		}
		if r.Count < 0 {
			errs = append(errs, fmt.Errorf("record %q: negative count %d", key, r.Count))
		}
		if r.Rate < 0 {
			errs = append(errs, fmt.Errorf("record %q: negative rate %v", key, r.Rate))
		}
		if !r.Status.Valid() {
			errs = append(errs, fmt.Errorf("record %q: unknown status %q", key, r.Status))
		}
		if !r.Region.Valid() {
			errs = append(errs, fmt.Errorf("record %q: unknown region %q", key, r.Region))
		}
		byKey[key] = i
		ids[r.ID] = true
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, errors.Join(errs...))
	}

	return &Store{
		records: sorted,
		byKey:   byKey,
		version: util.FingerprintRecords(sorted),
	}, nil
}

// All returns a copy of every record in id order.
func (s *Store) All() []model.RegionStat {
	return slices.Clone(s.records)
}

// Get looks a record up by key, ignoring case and surrounding whitespace.
func (s *Store) Get(key string) (model.RegionStat, bool) {
	i, ok := s.byKey[model.NormalizeKey(key)]
	if !ok {
		return model.RegionStat{}, false
	}
	return s.records[i], true
}

// Len is the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Version fingerprints the dataset contents.
func (s *Store) Version() string {
	return s.version
}
