package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"conference-site/pkg/models"
	"conference-site/pkg/services"
	"conference-site/pkg/site"
)

type fakeService struct {
	data    *models.SiteData
	dataErr error
}

func (f *fakeService) GetSiteData(context.Context) (*models.SiteData, error) {
	return f.data, f.dataErr
}

func (f *fakeService) GetSpeaker(_ context.Context, slug string) (models.Speaker, error) {
	for _, s := range f.data.Speakers {
		if s.Slug == slug {
			return s, nil
		}
	}
	return models.Speaker{}, services.ErrNotFound
}

func (f *fakeService) GetProject(_ context.Context, slug string) (models.Project, error) {
	if slug == "broken" {
		return models.Project{}, errors.New("cms down")
	}
	for _, p := range f.data.Projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Project{}, services.ErrNotFound
}

func (f *fakeService) GetPage(_ context.Context, route string) (*models.Page, error) {
	if route == "/about/" || route == "/about" {
		return &models.Page{Name: "About", Route: "/about/", Blocks: []models.Block{
			{ContentType: "richTextBlock", Properties: map[string]any{"title": "About us"}},
		}}, nil
	}
	return nil, services.ErrNotFound
}

func newTestServer(t *testing.T, svc *fakeService) http.Handler {
	t.Helper()
	views := t.TempDir()
	public := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(name), 0755))
		require.NoError(t, os.WriteFile(name, []byte(body), 0644))
	}
	write(filepath.Join(views, "layout.pug"), "html\n  body\n    block content\n")
	write(filepath.Join(views, "index.pug"), "extends layout.pug\n\nblock content\n  each $b in .Blocks\n    | #{$b}\n")
	write(filepath.Join(views, "speakers.pug"), "div\n  each $s in .Speakers\n    p #{$s.Name}\n")
	write(filepath.Join(views, "speaker.pug"), "h1 #{.Speaker.Name}\n")
	write(filepath.Join(views, "projects.pug"), "div\n  each $p in .Projects\n    p #{$p.Title}\n")
	write(filepath.Join(views, "project.pug"), "h1 #{.Project.Title}\n")
	write(filepath.Join(views, "blocks", "unknownBlock.pug"), "p block #{.Title}\n")
	write(filepath.Join(public, "robots.txt"), "User-agent: *\n")

	renderer := site.NewRenderer(views, "https://cms.example.com", zap.NewNop())
	return New(svc, renderer, zap.NewNop()).Routes(public)
}

func testService() *fakeService {
	return &fakeService{data: &models.SiteData{
		Homepage: &models.Page{Route: "/", Blocks: []models.Block{
			{ContentType: "heroBlock", Properties: map[string]any{"title": "Hello hub"}},
		}},
		Speakers: []models.Speaker{{ID: "s1", Name: "Ada", Slug: "ada"}},
		Projects: []models.Project{{ID: "p1", Title: "Gopher", Slug: "gopher", Tech: []string{}}},
	}}
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPages(t *testing.T) {
	h := newTestServer(t, testService())

	tests := []struct {
		path string
		want string
	}{
		{"/", "block Hello hub"},
		{"/speakers", "Ada"},
		{"/speakers/", "Ada"},
		{"/speakers/ada", "Ada"},
		{"/speakers/ada/", "Ada"},
		{"/projects", "Gopher"},
		{"/projects/gopher/", "Gopher"},
		{"/pages/about/", "block About us"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(h, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestPagesFromAbsoluteViewsDir(t *testing.T) {
	h := newTestServer(t, testService())

	rec := serve(h, "/")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "<body>")
	assert.Contains(t, rec.Body.String(), "block Hello hub")
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t, testService())

	assert.Equal(t, http.StatusNotFound, serve(h, "/speakers/nobody").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, "/projects/nothing/").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, "/pages/missing").Code)
	assert.Equal(t, http.StatusBadGateway, serve(h, "/projects/broken").Code)
}

func TestFeed(t *testing.T) {
	h := newTestServer(t, testService())

	rec := serve(h, "/feed.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var data models.SiteData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Len(t, data.Speakers, 1)
}

func TestSiteDataFailure(t *testing.T) {
	h := newTestServer(t, &fakeService{dataErr: errors.New("cms down")})

	assert.Equal(t, http.StatusBadGateway, serve(h, "/").Code)
	assert.Equal(t, http.StatusBadGateway, serve(h, "/feed.json").Code)
}

func TestPublicFiles(t *testing.T) {
	h := newTestServer(t, testService())

	rec := serve(h, "/robots.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User-agent")
}
