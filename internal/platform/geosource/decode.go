package geosource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// ErrUnsupportedPayload is returned for JSON that is neither GeoJSON nor TopoJSON.
var ErrUnsupportedPayload = errors.New("unsupported feature payload")

// PreferredObject is the TopoJSON object used when a topology carries several layers.
const PreferredObject = "states"

type rawFeature struct {
	ID         json.RawMessage `json:"id"`
	Properties map[string]any  `json:"properties"`
}

type topoObject struct {
	Type       string          `json:"type"`
	ID         json.RawMessage `json:"id"`
	Properties map[string]any  `json:"properties"`
	Geometries []rawFeature    `json:"geometries"`
}

type payload struct {
	Type       string                `json:"type"`
	ID         json.RawMessage       `json:"id"`
	Properties map[string]any        `json:"properties"`
	Features   []rawFeature          `json:"features"`
	Objects    map[string]topoObject `json:"objects"`
}

// Decode reads a GeoJSON FeatureCollection, a single GeoJSON Feature, or a TopoJSON
// Topology and returns the features' ids and property bags. Geometry is ignored.
func Decode(r io.Reader) ([]model.Feature, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode feature payload: %w", err)
	}

	switch p.Type {
	case "FeatureCollection":
		return convert(p.Features), nil
	case "Feature":
		return []model.Feature{toFeature(p.ID, p.Properties)}, nil
	case "Topology":
		return fromTopology(p.Objects)
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnsupportedPayload, p.Type)
	}
}

func fromTopology(objects map[string]topoObject) ([]model.Feature, error) {
	if len(objects) == 0 {
		return nil, fmt.Errorf("%w: topology has no objects", ErrUnsupportedPayload)
	}
	obj, ok := objects[PreferredObject]
	if !ok {
		names := make([]string, 0, len(objects))
		for name := range objects {
			names = append(names, name)
		}
		sort.Strings(names)
		obj = objects[names[0]]
	}
	if obj.Type == "GeometryCollection" {
		return convert(obj.Geometries), nil
	}
	return []model.Feature{toFeature(obj.ID, obj.Properties)}, nil
}

func convert(raw []rawFeature) []model.Feature {
	out := make([]model.Feature, 0, len(raw))
	for _, f := range raw {
		out = append(out, toFeature(f.ID, f.Properties))
	}
	return out
}

func toFeature(id json.RawMessage, props map[string]any) model.Feature {
	if props == nil {
		props = map[string]any{}
	}
	return model.Feature{ID: idString(id), Properties: props}
}

// idString accepts string or numeric ids.
func idString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}
