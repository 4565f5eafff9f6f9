package umbraco

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-site/pkg/config"
)

const testAPIKey = "test-key"

// fakeCMS serves a fixed set of content items the way the Delivery API does.
type fakeCMS struct {
	items      []ContentItem
	listStatus int
	itemStatus int

	mu       sync.Mutex
	requests []*http.Request
}

func (f *fakeCMS) last() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeCMS) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeCMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.mu.Unlock()
	if r.Header.Get("Authorization") != "Api-Key "+testAPIKey {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == contentEndpoint:
		if f.listStatus != 0 {
			http.Error(w, "list failed", f.listStatus)
			return
		}
		var items []ContentItem
		filter := r.URL.Query().Get("filter")
		for _, item := range f.items {
			if filter == "" || filter == "contentType:"+item.ContentType {
				items = append(items, item)
			}
		}
		writeJSON(w, map[string]any{"items": items, "total": len(items)})

	case r.URL.Path == contentEndpoint+"/item":
		if f.itemStatus != 0 {
			http.Error(w, "item failed", f.itemStatus)
			return
		}
		path := r.URL.Query().Get("path")
		for _, item := range f.items {
			if item.Route.Path == path {
				writeJSON(w, item)
				return
			}
		}
		http.NotFound(w, r)

	case strings.HasPrefix(r.URL.Path, contentEndpoint+"/item/"):
		if f.itemStatus != 0 {
			http.Error(w, "item failed", f.itemStatus)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, contentEndpoint+"/item/")
		for _, item := range f.items {
			if item.ID == id {
				writeJSON(w, item)
				return
			}
		}
		http.NotFound(w, r)

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func item(id, contentType, route string, props Properties) ContentItem {
	return ContentItem{
		ID:          id,
		Name:        id,
		ContentType: contentType,
		Route:       Route{Path: route},
		Properties:  props,
		CreateDate:  "2026-01-01T00:00:00Z",
		UpdateDate:  "2026-01-02T00:00:00Z",
	}
}

func newTestClient(t *testing.T, cms *fakeCMS) *Client {
	t.Helper()
	srv := httptest.NewServer(cms)
	t.Cleanup(srv.Close)

	c, err := NewClient(&config.Config{APIURL: srv.URL, APIKey: testAPIKey})
	require.NoError(t, err)
	return c
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestNewClientRequiresConfig(t *testing.T) {
	_, err := NewClient(&config.Config{APIKey: "k"})
	assert.ErrorIs(t, err, config.ErrAPIURLNotSet)

	_, err = NewClient(&config.Config{APIURL: "https://cms.example.org"})
	assert.ErrorIs(t, err, config.ErrAPIKeyNotSet)

	_, err = NewClient(nil)
	assert.ErrorIs(t, err, config.ErrAPIURLNotSet)
}

func TestFetchContentItems(t *testing.T) {
	cms := &fakeCMS{items: []ContentItem{
		item("s1", TypeSpeaker, "/speakers/ada/", Properties{"speakerName": "Ada"}),
		item("p1", TypeProject, "/projects/engine/", nil),
	}}
	c := newTestClient(t, cms)

	items, err := c.FetchContentItems(context.Background(), TypeSpeaker, Filter{Key: "take", Value: "50"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "s1", items[0].ID)
	assert.Equal(t, "Ada", items[0].Properties.String("speakerName"))

	require.Equal(t, 1, cms.count())
	assert.Equal(t,
		"filter=contentType%3Aspeaker&take=50&expand=properties%5B%24all%5D&fields=properties%5B%24all%5D",
		cms.last().URL.RawQuery)
	assert.Equal(t, "application/json", cms.last().Header.Get("Accept"))
}

func TestFetchContentItemsWithoutTypeOrItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("filter"))
		writeJSON(w, map[string]any{"total": 0})
	}))
	defer srv.Close()

	c, err := NewClient(&config.Config{APIURL: srv.URL, APIKey: testAPIKey})
	require.NoError(t, err)

	items, err := c.FetchContentItems(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchContentItemsAPIError(t *testing.T) {
	c := newTestClient(t, &fakeCMS{listStatus: http.StatusInternalServerError})

	_, err := c.FetchContentItems(context.Background(), TypeSpeaker)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal Server Error", apiErr.Status)
	assert.Contains(t, apiErr.Endpoint, contentEndpoint)
	assert.Equal(t, "umbraco API error: 500 Internal Server Error", apiErr.Error())
}

func TestFetchContentItemsNetworkFailurePropagates(t *testing.T) {
	c, err := NewClient(&config.Config{APIURL: "https://cms.example.org", APIKey: testAPIKey}, WithDoer(failingDoer{}))
	require.NoError(t, err)

	_, err = c.FetchContentItems(context.Background(), TypeSpeaker)
	assert.ErrorContains(t, err, "connection refused")
}

func TestFetchContentByRoute(t *testing.T) {
	cms := &fakeCMS{items: []ContentItem{item("home", TypeHomepage, "/", nil)}}
	c := newTestClient(t, cms)

	t.Run("found", func(t *testing.T) {
		got, err := c.FetchContentByRoute(context.Background(), "/")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "home", got.ID)
	})

	t.Run("not found is nil", func(t *testing.T) {
		got, err := c.FetchContentByRoute(context.Background(), "/missing/")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("query", func(t *testing.T) {
		last := cms.last()
		assert.Equal(t, "path=%2Fmissing%2F&expand=properties&fields=%2A", last.URL.RawQuery)
	})
}

func TestFetchContentByRouteServerError(t *testing.T) {
	c := newTestClient(t, &fakeCMS{itemStatus: http.StatusBadGateway})

	got, err := c.FetchContentByRoute(context.Background(), "/")
	assert.Nil(t, got)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "item failed")
	assert.Contains(t, apiErr.Error(), "item failed")
	assert.False(t, IsNotFound(err))
}

func TestFetchContentByRouteNetworkFailureIsNil(t *testing.T) {
	c, err := NewClient(&config.Config{APIURL: "https://cms.example.org", APIKey: testAPIKey}, WithDoer(failingDoer{}))
	require.NoError(t, err)

	got, err := c.FetchContentByRoute(context.Background(), "/")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFetchContentByID(t *testing.T) {
	cms := &fakeCMS{items: []ContentItem{item("abc-123", TypeSpeaker, "/speakers/ada/", nil)}}
	c := newTestClient(t, cms)

	got, err := c.FetchContentByID(context.Background(), "abc-123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/speakers/ada/", got.Route.Path)

	missing, err := c.FetchContentByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	last := cms.last()
	assert.Equal(t, contentEndpoint+"/item/nope", last.URL.Path)
	assert.Equal(t, "expand=properties%5B%24all%5D&fields=properties%5B%24all%5D", last.URL.RawQuery)
}

func TestFetchContentByIDNetworkFailureIsNil(t *testing.T) {
	c, err := NewClient(&config.Config{APIURL: "https://cms.example.org", APIKey: testAPIKey}, WithDoer(failingDoer{}))
	require.NoError(t, err)

	got, err := c.FetchContentByID(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Nil(t, got)

	children, err := c.FetchChildren(context.Background(), "abc", "")
	assert.NoError(t, err)
	assert.Empty(t, children)
}

func TestFetchContentByIDServerError(t *testing.T) {
	c := newTestClient(t, &fakeCMS{itemStatus: http.StatusInternalServerError})

	got, err := c.FetchContentByID(context.Background(), "abc")
	assert.Nil(t, got)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "item failed")
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (brokenBody) Close() error { return nil }

type brokenBodyDoer struct{}

func (brokenBodyDoer) Do(*http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusBadGateway,
		Status:     "502 Bad Gateway",
		Body:       brokenBody{},
	}, nil
}

func TestAPIErrorUnreadableBody(t *testing.T) {
	c, err := NewClient(&config.Config{APIURL: "https://cms.example.org", APIKey: testAPIKey}, WithDoer(brokenBodyDoer{}))
	require.NoError(t, err)

	_, err = c.FetchContentByRoute(context.Background(), "/")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "<unreadable: connection reset>", apiErr.Body)
}

func TestFetchContentBySlug(t *testing.T) {
	cms := &fakeCMS{items: []ContentItem{
		item("s1", TypeSpeaker, "/speakers/ada/", nil),
		item("s2", TypeSpeaker, "/speakers/grace", nil),
		item("s3", TypeSpeaker, "/archive/grace/", nil),
	}}
	c := newTestClient(t, cms)

	got, err := c.FetchContentBySlug(context.Background(), "grace", TypeSpeaker)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s2", got.ID, "first match wins")

	none, err := c.FetchContentBySlug(context.Background(), "linus", TypeSpeaker)
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestFetchHomepage(t *testing.T) {
	t.Run("root is homepage", func(t *testing.T) {
		c := newTestClient(t, &fakeCMS{items: []ContentItem{item("home", TypeHomepage, "/", nil)}})

		got, err := c.FetchHomepage(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "home", got.ID)
	})

	t.Run("falls back to content type", func(t *testing.T) {
		c := newTestClient(t, &fakeCMS{items: []ContentItem{
			item("landing", "page", "/", nil),
			item("home", TypeHomepage, "/home/", nil),
		}})

		got, err := c.FetchHomepage(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "home", got.ID)
	})

	t.Run("no homepage", func(t *testing.T) {
		c := newTestClient(t, &fakeCMS{})

		got, err := c.FetchHomepage(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestFetchSiteSettings(t *testing.T) {
	c := newTestClient(t, &fakeCMS{items: []ContentItem{
		item("settings", TypeSiteSettings, "/settings/", Properties{"footerText": "bye"}),
	}})

	got, err := c.FetchSiteSettings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bye", got.Properties.String("footerText"))
}

func TestFetchChildren(t *testing.T) {
	cms := &fakeCMS{items: []ContentItem{
		item("speakers", "speakersPage", "/speakers/", nil),
		item("ada", TypeSpeaker, "/speakers/ada/", nil),
		item("grace", TypeSpeaker, "/speakers/grace", nil),
		item("talk", "talk", "/speakers/ada/talk/", nil),
		item("old", TypeSpeaker, "/speakers-old/linus/", nil),
		item("project", TypeProject, "/projects/engine/", nil),
	}}
	c := newTestClient(t, cms)

	t.Run("direct children only", func(t *testing.T) {
		children, err := c.FetchChildren(context.Background(), "speakers", "")
		require.NoError(t, err)

		var ids []string
		for _, child := range children {
			ids = append(ids, child.ID)
		}
		assert.Equal(t, []string{"ada", "grace"}, ids)
	})

	t.Run("type filtered", func(t *testing.T) {
		children, err := c.FetchChildren(context.Background(), "speakers", "talk")
		require.NoError(t, err)
		assert.Empty(t, children)
	})

	t.Run("unknown parent is empty", func(t *testing.T) {
		children, err := c.FetchChildren(context.Background(), "nobody", "")
		require.NoError(t, err)
		assert.NotNil(t, children)
		assert.Empty(t, children)
	})
}

func TestFetchChildrenListFailurePropagates(t *testing.T) {
	cms := &fakeCMS{
		items:      []ContentItem{item("speakers", "speakersPage", "/speakers/", nil)},
		listStatus: http.StatusServiceUnavailable,
	}
	c := newTestClient(t, cms)

	_, err := c.FetchChildren(context.Background(), "speakers", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}
