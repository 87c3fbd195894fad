package main

import (
	"barchive/collections"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationField(t *testing.T) {
	// An explicit null clears the stored location; so does the empty string.
	value, err := locationField(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = locationField(json.RawMessage(`""`))
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = locationField(json.RawMessage(`"Lyon, France"`))
	require.NoError(t, err)
	assert.Equal(t, "Lyon, France", value)

	value, err = locationField(json.RawMessage(`{"displayName":"Paris, France","lat":48.8566,"lng":2.3522}`))
	require.NoError(t, err)
	loc, ok := value.(collections.Location)
	require.True(t, ok)
	assert.Equal(t, "Paris, France", loc.DisplayName)
	assert.Equal(t, 48.8566, loc.Lat)
}

func TestLocationFieldRejectsBadShapes(t *testing.T) {
	for _, raw := range []string{`42`, `["Paris"]`, `{"lat":"north"}`, `{not json`} {
		_, err := locationField(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}
