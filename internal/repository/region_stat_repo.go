package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// DefaultCollection holds one document per state, keyed by state code.
const DefaultCollection = "region_stats"

const batchSize = 400

// RegionStatRepository handles Firestore read/write for region statistics.
type RegionStatRepository struct {
	client     *firestore.Client
	collection string
}

func NewRegionStatRepository(client *firestore.Client, collection string) *RegionStatRepository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &RegionStatRepository{client: client, collection: collection}
}

// Collection returns the collection name used for records.
func (r *RegionStatRepository) Collection() string {
	return r.collection
}

// FetchAll loads every record in the collection.
func (r *RegionStatRepository) FetchAll(ctx context.Context) ([]model.RegionStat, error) {
	iter := r.client.Collection(r.collection).Documents(ctx)
	defer iter.Stop()

	var result []model.RegionStat
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate %s: %w", r.collection, err)
		}
		var stat model.RegionStat
		if err := doc.DataTo(&stat); err != nil {
			return nil, fmt.Errorf("decode region stat %s: %w", doc.Ref.ID, err)
		}
		if stat.Key == "" {
			stat.Key = doc.Ref.ID
		}
		result = append(result, stat)
	}
	return result, nil
}

// BatchUpsert writes records in batches to reduce round trips.
func (r *RegionStatRepository) BatchUpsert(ctx context.Context, stats []model.RegionStat) error {
	if len(stats) == 0 {
		return nil
	}

	for start := 0; start < len(stats); start += batchSize {
		end := min(start+batchSize, len(stats))
		batch := r.client.Batch()
		for _, s := range stats[start:end] {
			batch.Set(r.client.Collection(r.collection).Doc(DocumentID(s)), s)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("commit batch [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// SaveMeta records what was last seeded into the collection.
func (r *RegionStatRepository) SaveMeta(ctx context.Context, meta model.DatasetMeta) error {
	if meta.SeededAt.IsZero() {
		meta.SeededAt = time.Now().UTC()
	}
	if _, err := r.metaRef().Set(ctx, meta); err != nil {
		return fmt.Errorf("save dataset meta: %w", err)
	}
	return nil
}

func (r *RegionStatRepository) GetMeta(ctx context.Context) (model.DatasetMeta, error) {
	snap, err := r.metaRef().Get(ctx)
	if err != nil {
		return model.DatasetMeta{}, fmt.Errorf("get dataset meta: %w", err)
	}
	var meta model.DatasetMeta
	if err := snap.DataTo(&meta); err != nil {
		return model.DatasetMeta{}, fmt.Errorf("decode dataset meta: %w", err)
	}
	return meta, nil
}

func (r *RegionStatRepository) metaRef() *firestore.DocumentRef {
	return r.client.Collection("system").Doc(r.collection)
}

// DocumentID is the state key, or the numeric id for keyless records.
func DocumentID(s model.RegionStat) string {
	if key := model.NormalizeKey(s.Key); key != "" {
		return key
	}
	return "id-" + strconv.Itoa(s.ID)
}
