package mappers

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-site/pkg/models"
	"conference-site/pkg/umbraco"
)

const testBase = "https://cms.example.org"

func decodeItem(t *testing.T, raw string) umbraco.ContentItem {
	t.Helper()
	var item umbraco.ContentItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	return item
}

func strPtr(s string) *string { return &s }

func TestMapThread(t *testing.T) {
	m := NewMapper(testBase)

	t.Run("defaults", func(t *testing.T) {
		item := umbraco.ContentItem{ID: "t1", Name: "Fallback title", ContentType: umbraco.TypeThread, CreateDate: "2026-03-01T10:00:00Z"}

		want := models.Thread{
			ID:        "t1",
			Timestamp: "2026-03-01T10:00:00Z",
			Title:     "Fallback title",
			Status:    DefaultThreadStatus,
		}
		if diff := cmp.Diff(want, m.MapThread(item)); diff != "" {
			t.Errorf("MapThread() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("status echoed verbatim", func(t *testing.T) {
		for _, status := range []string{"ARCHIVED", "active", "LOCKED_0x1"} {
			item := umbraco.ContentItem{ContentType: umbraco.TypeThread, Properties: umbraco.Properties{"status": status}}
			assert.Equal(t, status, m.MapThread(item).Status)
		}
	})

	t.Run("empty string falls back", func(t *testing.T) {
		item := umbraco.ContentItem{Name: "n", Properties: umbraco.Properties{"status": "", "title": ""}}
		got := m.MapThread(item)
		assert.Equal(t, DefaultThreadStatus, got.Status)
		assert.Equal(t, "n", got.Title)
	})
}

func TestMapEvent(t *testing.T) {
	m := NewMapper(testBase)

	got := m.MapEvent(umbraco.ContentItem{ID: "e1", Name: "Meetup", CreateDate: "2026-01-01"})
	assert.Equal(t, DefaultEventStatus, got.Status)
	assert.Equal(t, "Meetup", got.Title)
	assert.Equal(t, "2026-01-01", got.Timestamp)

	got = m.MapEvent(umbraco.ContentItem{Properties: umbraco.Properties{
		"title":     "Keynote",
		"category":  "TALK",
		"timestamp": "09:00",
		"user":      "ada",
		"status":    "LIVE",
	}})
	assert.Equal(t, models.Event{Title: "Keynote", Category: "TALK", Timestamp: "09:00", User: "ada", Status: "LIVE"}, got)
}

func TestMapSpeakerDefaults(t *testing.T) {
	m := NewMapper(testBase)

	got := m.MapSpeaker(umbraco.ContentItem{ID: "s1", Name: "Ada", Route: umbraco.Route{Path: "/speakers/ada/"}})

	want := models.Speaker{
		ID:     "s1",
		Name:   "Ada",
		Status: DefaultSpeakerStatus,
		Slug:   "ada",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapSpeaker() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapSpeakerImageShapes(t *testing.T) {
	m := NewMapper(testBase)
	want := testBase + "/media/x.jpg"

	shapes := map[string]string{
		"bare string":        `"/media/x.jpg"`,
		"object with url":    `{"url": "/media/x.jpg"}`,
		"array of url":       `[{"url": "/media/x.jpg"}]`,
		"array of src":       `[{"src": "/media/x.jpg"}]`,
		"nested content":     `[{"content": {"url": "/media/x.jpg"}}]`,
		"nested media url":   `[{"mediaItems": [{"url": "/media/x.jpg"}]}]`,
		"nested media src":   `[{"mediaItems": [{"src": "/media/x.jpg"}]}]`,
		"no leading slash":   `"media/x.jpg"`,
		"already absolute":   `"https://cms.example.org/media/x.jpg"`,
		"url beats src":      `[{"url": "/media/x.jpg", "src": "/media/other.jpg"}]`,
		"src when url empty": `[{"url": "", "src": "/media/x.jpg"}]`,
	}

	for name, raw := range shapes {
		t.Run(name, func(t *testing.T) {
			item := decodeItem(t, `{"id": "s1", "contentType": "speaker", "properties": {"image": `+raw+`}}`)
			got := m.MapSpeaker(item)
			require.NotNil(t, got.ImageURL)
			assert.Equal(t, want, *got.ImageURL)
		})
	}
}

func TestMapSpeakerLegacyImageURL(t *testing.T) {
	m := NewMapper(testBase)

	item := umbraco.ContentItem{Properties: umbraco.Properties{"image": "", "imageUrl": "/media/legacy.png"}}
	got := m.MapSpeaker(item)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, testBase+"/media/legacy.png", *got.ImageURL)
}

func TestMapSpeakerUnresolvableImage(t *testing.T) {
	m := NewMapper(testBase)

	for _, raw := range []string{`[]`, `[{"id": "abc"}]`, `42`, `{"name": "x"}`, `null`} {
		item := decodeItem(t, `{"properties": {"image": `+raw+`}}`)
		assert.Nil(t, m.MapSpeaker(item).ImageURL, raw)
	}
}

func TestMapSpeakerOptionalFields(t *testing.T) {
	m := NewMapper(testBase)

	got := m.MapSpeaker(umbraco.ContentItem{Properties: umbraco.Properties{
		"speakerName":    "Grace",
		"bio":            "Compiler pioneer",
		"clearanceLevel": "OMEGA",
		"status":         "OFFLINE",
	}})
	assert.Equal(t, "Grace", got.Name)
	assert.Equal(t, "OFFLINE", got.Status)
	assert.Equal(t, strPtr("Compiler pioneer"), got.Bio)
	assert.Equal(t, strPtr("OMEGA"), got.ClearanceLevel)
}

func TestMapProject(t *testing.T) {
	m := NewMapper(testBase)

	t.Run("defaults", func(t *testing.T) {
		got := m.MapProject(umbraco.ContentItem{ID: "p1", Name: "Engine", Route: umbraco.Route{Path: "/projects/engine"}})

		want := models.Project{
			ID:    "p1",
			Title: "Engine",
			Link:  DefaultProjectLink,
			Tech:  []string{},
			Slug:  "engine",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("MapProject() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("full", func(t *testing.T) {
		item := decodeItem(t, `{
			"id": "p2",
			"name": "node",
			"properties": {
				"title": "Block Grid Kit",
				"author": "Ada",
				"description": "Reusable blocks",
				"link": "https://example.org/kit",
				"client": "UIUG",
				"category": "OSS",
				"techStack": ["Go", "Umbraco"],
				"image": [{"url": "/media/kit.png"}]
			}
		}`)

		got := m.MapProject(item)
		assert.Equal(t, "Block Grid Kit", got.Title)
		assert.Equal(t, testBase+"/media/kit.png", got.ImageURL)
		assert.Equal(t, "https://example.org/kit", got.Link)
		assert.Equal(t, []string{"Go", "Umbraco"}, got.Tech)
	})
}

func TestMapSpeakersEndToEnd(t *testing.T) {
	m := NewMapper(testBase)

	var resp struct {
		Items []umbraco.ContentItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{
		"items": [
			{"id": "1", "name": "Ada", "contentType": "speaker", "properties": {"image": [{"url": "/media/ada.jpg"}]}},
			{"id": "2", "name": "Grace", "contentType": "speaker", "properties": {}}
		],
		"total": 2
	}`), &resp))

	speakers := m.MapSpeakers(resp.Items)
	require.Len(t, speakers, 2)
	require.NotNil(t, speakers[0].ImageURL)
	assert.Equal(t, testBase+"/media/ada.jpg", *speakers[0].ImageURL)
	assert.Nil(t, speakers[1].ImageURL)
}

func TestMapListsKeepOrder(t *testing.T) {
	m := NewMapper(testBase)
	items := []umbraco.ContentItem{{ID: "b"}, {ID: "a"}, {ID: "c"}}

	threads := m.MapThreads(items)
	events := m.MapEvents(items)
	projects := m.MapProjects(items)
	for i, id := range []string{"b", "a", "c"} {
		assert.Equal(t, id, threads[i].ID)
		assert.Equal(t, id, events[i].ID)
		assert.Equal(t, id, projects[i].ID)
	}
	assert.Empty(t, m.MapSpeakers(nil))
}

func TestMapSiteSettings(t *testing.T) {
	m := NewMapper(testBase)

	assert.Nil(t, m.MapSiteSettings(nil))

	got := m.MapSiteSettings(&umbraco.ContentItem{Name: "Settings"})
	require.NotNil(t, got)
	assert.Equal(t, "Settings", got.Name)
	assert.NotNil(t, got.Properties)
}
