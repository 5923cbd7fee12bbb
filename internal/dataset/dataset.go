// Package dataset loads the region statistics once at start-up.
//
// Records come from one of three sources: the seed compiled into the binary, a CSV or
// JSON file on disk, or a Firestore collection. Whatever the source, the result is
// handed to dashboard.NewStore, which enforces the dataset invariants.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

//go:embed seed/region_stats.json
var seedJSON []byte

// Dataset sources accepted by Load.
const (
	SourceEmbedded  = "embedded"
	SourceFile      = "file"
	SourceFirestore = "firestore"
)

var (
	ErrUnknownSource = errors.New("unknown dataset source")
	ErrNoRemote      = errors.New("firestore source selected but no client configured")
)

// RemoteSource abstracts the Firestore repository for testability.
type RemoteSource interface {
	FetchAll(ctx context.Context) ([]model.RegionStat, error)
}

// Load reads the dataset from the named source.
func Load(ctx context.Context, source, path string, remote RemoteSource) ([]model.RegionStat, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", SourceEmbedded:
		return Embedded()
	case SourceFile:
		return LoadFile(path)
	case SourceFirestore:
		if remote == nil {
			return nil, ErrNoRemote
		}
		records, err := remote.FetchAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load from firestore: %w", err)
		}
		return canonicalize(records), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownSource, source)
	}
}

// Embedded returns the seed dataset compiled into the binary.
func Embedded() ([]model.RegionStat, error) {
	records, err := DecodeJSON(bytes.NewReader(seedJSON))
	if err != nil {
		return nil, fmt.Errorf("decode embedded seed: %w", err)
	}
	return records, nil
}

// LoadFile reads a .csv or .json dataset file.
func LoadFile(path string) ([]model.RegionStat, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("dataset file path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return DecodeCSV(f)
	case ".json":
		return DecodeJSON(f)
	default:
		return nil, fmt.Errorf("unsupported dataset file extension %q", filepath.Ext(path))
	}
}

// DecodeJSON parses a JSON array of records in the API wire format.
func DecodeJSON(r io.Reader) ([]model.RegionStat, error) {
	var records []model.RegionStat
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode dataset json: %w", err)
	}
	return canonicalize(records), nil
}

// canonicalize fixes the case of keys and enum values. Values outside the enums are
// left untouched so the store rejects them with a clear message.
func canonicalize(records []model.RegionStat) []model.RegionStat {
	for i := range records {
		records[i].Key = model.NormalizeKey(records[i].Key)
		records[i].Name = strings.TrimSpace(records[i].Name)
		if s, ok := model.ParseStatus(string(records[i].Status)); ok {
			records[i].Status = s
		}
		if reg, ok := model.ParseRegion(string(records[i].Region)); ok {
			records[i].Region = reg
		}
	}
	return records
}
