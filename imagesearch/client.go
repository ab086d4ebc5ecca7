// Package imagesearch queries Wikipedia's MediaWiki API for images
// illustrating a concept and normalizes the hits into core.ImageResult
// values. The client is read-only, performs no pagination beyond the single
// requested count and never retries: a non-success upstream response is a
// fatal core.UpstreamError for the round that issued it.
package imagesearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/lessonforge/lessonforge/core"
	"github.com/lessonforge/lessonforge/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultEndpoint is the English Wikipedia API endpoint.
	DefaultEndpoint = "https://en.wikipedia.org/w/api.php"
	// DefaultThumbWidth is the thumbnail width requested per image.
	DefaultThumbWidth = 600

	serviceName = "wikipedia"
)

// HTTPClient abstracts *http.Client for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Client. Zero values fall back to sensible defaults.
type Config struct {
	Endpoint   string
	ThumbWidth int
	HTTPClient HTTPClient
	// RateLimit caps outgoing requests per second against the public API.
	// Zero disables client-side limiting.
	RateLimit float64
	Logger    logging.Logger
}

// Client executes image lookups against a MediaWiki-compatible endpoint.
// It is safe for concurrent use.
type Client struct {
	endpoint   string
	thumbWidth int
	httpClient HTTPClient
	limiter    *rate.Limiter
	logger     logging.Logger
}

// NewClient constructs a Client from cfg.
func NewClient(cfg Config) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint,
		thumbWidth: cfg.ThumbWidth,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.thumbWidth <= 0 {
		c.thumbWidth = DefaultThumbWidth
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = logging.NoOpLogger{}
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c
}

// searchResponse mirrors the slice of the MediaWiki query response we
// consume. Pages is keyed by page id; the index field restores search
// ranking order.
type searchResponse struct {
	Query struct {
		Pages map[string]searchPage `json:"pages"`
	} `json:"query"`
}

type searchPage struct {
	Title     string `json:"title"`
	Index     int    `json:"index"`
	FullURL   string `json:"fullurl"`
	Thumbnail *struct {
		Source string `json:"source"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"thumbnail"`
}

// Search issues one read-only query for up to count matches and maps every
// page that actually carries an image asset to an ImageResult. Pages
// without a thumbnail are silently filtered out, so fewer than count
// results is normal.
func (c *Client) Search(ctx context.Context, query string, count int) ([]core.ImageResult, error) {
	if count <= 0 {
		count = 1
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(query, count), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewUpstreamError(serviceName, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, core.NewUpstreamError(serviceName, resp.StatusCode,
			fmt.Errorf("image search for %q rejected", query))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewUpstreamError(serviceName, resp.StatusCode, err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, core.NewUpstreamError(serviceName, resp.StatusCode, err)
	}

	pages := make([]searchPage, 0, len(parsed.Query.Pages))
	for _, p := range parsed.Query.Pages {
		if p.Thumbnail == nil || p.Thumbnail.Source == "" {
			continue
		}
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	results := make([]core.ImageResult, 0, len(pages))
	for _, p := range pages {
		results = append(results, core.ImageResult{
			Title:         p.Title,
			ImageURL:      p.Thumbnail.Source,
			SourcePageURL: p.FullURL,
		})
	}

	c.logger.Debug("imagesearch.completed", "query", query, "requested", count, "returned", len(results))
	return results, nil
}

func (c *Client) buildURL(query string, count int) string {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("generator", "search")
	params.Set("gsrsearch", query)
	params.Set("gsrlimit", strconv.Itoa(count))
	params.Set("gsrnamespace", "0")
	params.Set("prop", "pageimages|info")
	params.Set("piprop", "thumbnail")
	params.Set("pithumbsize", strconv.Itoa(c.thumbWidth))
	params.Set("inprop", "url")
	return c.endpoint + "?" + params.Encode()
}
