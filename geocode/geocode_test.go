package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := New()
	c.baseURL = server.URL
	return c
}

func TestLookup(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BaRchive Map", r.Header.Get("User-Agent"))
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "Paris", q.Get("q"))
		assert.Equal(t, "1", q.Get("limit"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		w.Write([]byte(`[{"display_name":"Paris, France","lat":"48.8566","lon":"2.3522"}]`))
	})

	loc, err := c.Lookup(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris, France", loc.DisplayName)
	assert.Equal(t, 48.8566, loc.Lat)
	assert.Equal(t, 2.3522, loc.Lng)
}

func TestLookupNoResult(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	_, err := c.Lookup(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResult)

	_, err = c.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestLookupBadCoordinates(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"display_name":"X","lat":"not-a-number","lon":"0"}]`))
	})
	_, err := c.Lookup(context.Background(), "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
}

func TestLookupServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})
	_, err := c.Lookup(context.Background(), "Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
