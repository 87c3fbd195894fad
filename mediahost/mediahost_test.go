package mediahost

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{
			"versioned image",
			"https://res.cloudinary.com/demo/image/upload/v1712345678/baR-blog/pic.jpg",
			"baR-blog/pic", true,
		},
		{
			"no version segment",
			"https://res.cloudinary.com/demo/image/upload/baR-blog/pic.png",
			"baR-blog/pic", true,
		},
		{
			"raw pdf",
			"https://res.cloudinary.com/demo/raw/upload/v1/baR-blog/news.pdf",
			"baR-blog/news", true,
		},
		{
			"no extension",
			"https://res.cloudinary.com/demo/image/upload/v55/folder/asset",
			"folder/asset", true,
		},
		{
			"foreign url shape",
			"https://example.com/images/pic.jpg",
			"", false,
		},
		{"empty", "", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractPublicID(tc.url)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSignature(t *testing.T) {
	c := New("demo", "key", "secret")
	want := sha1.Sum([]byte("public_id=folder/pic&timestamp=1700000000secret"))
	assert.Equal(t, hex.EncodeToString(want[:]), c.signature("folder/pic", 1700000000))
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := New("demo", "key", "secret")
	c.baseURL = server.URL
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestDestroy(t *testing.T) {
	var gotPath string
	var c *Client
	c = testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "folder/pic", r.FormValue("public_id"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))
		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, c.signature("folder/pic", 1700000000), r.FormValue("signature"))
		w.Write([]byte(`{"result":"ok"}`))
	})

	err := c.Destroy(context.Background(), "folder/pic", ResourceImage)
	require.NoError(t, err)
	assert.Equal(t, "/demo/image/destroy", gotPath)
}

func TestDestroyNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"not found"}`))
	})
	err := c.Destroy(context.Background(), "folder/pic", ResourceImage)
	assert.EqualError(t, err, "destroy folder/pic: not found")
}

func TestDestroyByURLSkipsUnknownShapes(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"result":"ok"}`))
	})

	// Must not reach the API and must not panic or error.
	c.DestroyByURL(context.Background(), "https://example.com/images/pic.jpg", ResourceImage)
	assert.False(t, called)

	c.DestroyByURL(context.Background(), "", ResourceImage)
	assert.False(t, called)

	c.DestroyByURL(context.Background(),
		"https://res.cloudinary.com/demo/image/upload/v1/folder/pic.jpg", ResourceImage)
	assert.True(t, called)
}

func TestUsage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/demo/usage", r.URL.Path)
		w.Write([]byte(`{
			"plan": "Free",
			"credits": {"usage": 1.25, "limit": 25},
			"storage": {"usage": 1048576},
			"bandwidth": {"usage": 2097152},
			"transformations": {"usage": 42}
		}`))
	})

	usage, err := c.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Free", usage.Plan)
	assert.Equal(t, 1.25, usage.CreditsUsed)
	assert.Equal(t, 25.0, usage.CreditsLimit)
	assert.Equal(t, int64(1048576), usage.StorageBytes)
	assert.Equal(t, int64(2097152), usage.BandwidthBytes)
	assert.Equal(t, int64(42), usage.TransformedUnits)
}

func TestUnconfiguredClient(t *testing.T) {
	c := New("", "", "")
	assert.False(t, c.Configured())

	err := c.Destroy(context.Background(), "x", ResourceImage)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.Usage(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
