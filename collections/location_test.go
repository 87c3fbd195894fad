package collections

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want LocationValue
		ok   bool
	}{
		{"nil", nil, LocationValue{Kind: LocationNone}, true},
		{"empty string", "", LocationValue{Kind: LocationNone}, true},
		{"legacy string", "Paris", LocationValue{Kind: LocationUnstructured, Text: "Paris"}, true},
		{
			"structured",
			map[string]interface{}{"displayName": "Paris, France", "lat": 48.8566, "lng": 2.3522},
			LocationValue{Kind: LocationGeocoded, Geo: Location{DisplayName: "Paris, France", Lat: 48.8566, Lng: 2.3522}},
			true,
		},
		{
			"snake case display name",
			map[string]interface{}{"display_name": "Paris, France", "lat": 48.8566, "lng": 2.3522},
			LocationValue{Kind: LocationGeocoded, Geo: Location{DisplayName: "Paris, France", Lat: 48.8566, Lng: 2.3522}},
			true,
		},
		{
			"missing name",
			map[string]interface{}{"lat": 1.0, "lng": 2.0},
			LocationValue{Kind: LocationGeocoded, Geo: Location{DisplayName: "Unknown Location", Lat: 1, Lng: 2}},
			true,
		},
		{
			"integer coordinates",
			map[string]interface{}{"displayName": "Null Island", "lat": 0, "lng": 0},
			LocationValue{Kind: LocationGeocoded, Geo: Location{DisplayName: "Null Island"}},
			true,
		},
		{"missing coordinates", map[string]interface{}{"displayName": "X"}, LocationValue{}, false},
		{"wrong type", 42, LocationValue{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DecodeLocation(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

// A structured location must round-trip unchanged, and a legacy string must
// stay a string rather than being migrated to the structured form.
func TestLocationRoundTrip(t *testing.T) {
	structured, ok := DecodeLocation(map[string]interface{}{
		"displayName": "Paris, France", "lat": 48.8566, "lng": 2.3522,
	})
	require.True(t, ok)

	data, err := json.Marshal(structured)
	require.NoError(t, err)
	var back LocationValue
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, structured, back)

	legacy, ok := DecodeLocation("Paris")
	require.True(t, ok)
	assert.Equal(t, "Paris", legacy.FirestoreValue())

	data, err = json.Marshal(legacy)
	require.NoError(t, err)
	assert.Equal(t, `"Paris"`, string(data))
}

func TestLocationUnmarshalRejectsBadShapes(t *testing.T) {
	var lv LocationValue
	assert.Error(t, json.Unmarshal([]byte(`{"displayName":"X"}`), &lv))
	assert.Error(t, json.Unmarshal([]byte(`42`), &lv))
}
