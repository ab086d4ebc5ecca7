package imagesearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonforge/lessonforge/core"
)

const samplePayload = `{
	"query": {
		"pages": {
			"200": {
				"pageid": 200, "title": "Chloroplast", "index": 2,
				"fullurl": "https://en.wikipedia.org/wiki/Chloroplast",
				"thumbnail": {"source": "https://upload.wikimedia.org/chloroplast.jpg", "width": 600, "height": 400}
			},
			"100": {
				"pageid": 100, "title": "Leaf", "index": 1,
				"fullurl": "https://en.wikipedia.org/wiki/Leaf",
				"thumbnail": {"source": "https://upload.wikimedia.org/leaf.jpg", "width": 600, "height": 450}
			},
			"300": {
				"pageid": 300, "title": "Photosynthesis", "index": 3,
				"fullurl": "https://en.wikipedia.org/wiki/Photosynthesis"
			}
		}
	}
}`

func TestSearch_MapsAndFiltersPages(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("gsrsearch")
		assert.Equal(t, "2", r.URL.Query().Get("gsrlimit"))
		assert.Equal(t, "600", r.URL.Query().Get("pithumbsize"))
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL})
	results, err := c.Search(context.Background(), "leaf cells", 2)
	require.NoError(t, err)
	assert.Equal(t, "leaf cells", gotQuery)

	// Page 300 lacks a thumbnail and must be filtered; order follows index.
	require.Len(t, results, 2)
	assert.Equal(t, core.ImageResult{
		Title:         "Leaf",
		ImageURL:      "https://upload.wikimedia.org/leaf.jpg",
		SourcePageURL: "https://en.wikipedia.org/wiki/Leaf",
	}, results[0])
	assert.Equal(t, "Chloroplast", results[1].Title)
}

func TestSearch_NonSuccessStatusIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL})
	_, err := c.Search(context.Background(), "anything", 4)

	var upstream *core.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "wikipedia", upstream.Service)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.Status)
}

func TestSearch_TransportErrorIsUpstreamError(t *testing.T) {
	c := NewClient(Config{HTTPClient: failingHTTPClient{}})
	_, err := c.Search(context.Background(), "anything", 1)

	var upstream *core.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 0, upstream.Status)
}

func TestSearch_MalformedBodyIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL})
	_, err := c.Search(context.Background(), "anything", 1)

	var upstream *core.UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestSearch_EmptyResultSetIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":{}}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL})
	results, err := c.Search(context.Background(), "no hits", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

type failingHTTPClient struct{}

func (failingHTTPClient) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}
