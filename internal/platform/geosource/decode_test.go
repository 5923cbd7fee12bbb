package geosource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFeatureCollection(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"06","properties":{"name":"California"},"geometry":{"type":"Polygon","coordinates":[]}},
		{"type":"Feature","id":48,"properties":{"postal":"TX","pop":29.1}},
		{"type":"Feature","geometry":null}
	]}`
	features, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, features, 3)

	assert.Equal(t, "06", features[0].ID)
	assert.Equal(t, "California", features[0].Properties["name"])
	assert.Equal(t, "48", features[1].ID)
	assert.Equal(t, 29.1, features[1].Properties["pop"])
	assert.Equal(t, "", features[2].ID)
	assert.NotNil(t, features[2].Properties)
}

func TestDecodeSingleFeature(t *testing.T) {
	features, err := Decode(strings.NewReader(`{"type":"Feature","id":"36","properties":{"STUSPS":"NY"}}`))
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "NY", features[0].Properties["STUSPS"])
}

func TestDecodeTopologyPrefersStates(t *testing.T) {
	in := `{"type":"Topology","arcs":[],"objects":{
		"nation":{"type":"GeometryCollection","geometries":[{"type":"MultiPolygon","id":"US"}]},
		"states":{"type":"GeometryCollection","geometries":[
			{"type":"MultiPolygon","id":"01","properties":{"name":"Alabama"}},
			{"type":"MultiPolygon","id":"02","properties":{"name":"Alaska"}}
		]}
	}}`
	features, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "01", features[0].ID)
	assert.Equal(t, "Alaska", features[1].Properties["name"])
}

func TestDecodeTopologyFallsBackToFirstObject(t *testing.T) {
	in := `{"type":"Topology","objects":{
		"zones":{"type":"GeometryCollection","geometries":[{"id":"z"}]},
		"areas":{"type":"GeometryCollection","geometries":[{"id":"a1"},{"id":"a2"}]}
	}}`
	features, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, features, 2)
	assert.Equal(t, "a1", features[0].ID)
}

func TestDecodeRejectsUnknownPayloads(t *testing.T) {
	for _, in := range []string{
		`{"type":"Polygon","coordinates":[]}`,
		`{"type":"Topology","objects":{}}`,
		`[1,2,3]`,
		`not json`,
	} {
		_, err := Decode(strings.NewReader(in))
		assert.Error(t, err, in)
	}

	_, err := Decode(strings.NewReader(`{"type":"LineString"}`))
	assert.ErrorIs(t, err, ErrUnsupportedPayload)
}
