// Package mappers converts Delivery API content items into the entities the
// site renders. Every mapper is total: a missing or oddly shaped property
// falls back to a documented default, never an error.
package mappers

import (
	"conference-site/pkg/models"
	"conference-site/pkg/umbraco"
)

// Default values for absent properties
const (
	DefaultThreadStatus  = "ACTIVE"
	DefaultEventStatus   = "STABLE"
	DefaultSpeakerStatus = "ONLINE"
	DefaultProjectLink   = "#"
)

// Mapper maps content items, resolving media against the CMS base URL
type Mapper struct {
	mediaBaseURL string
}

// NewMapper creates a mapper. mediaBaseURL is the CMS origin, e.g.
// config.Config.MediaBaseURL(); an empty base leaves relative media paths as-is.
func NewMapper(mediaBaseURL string) *Mapper {
	return &Mapper{mediaBaseURL: mediaBaseURL}
}

// MapThread maps a thread item
func (m *Mapper) MapThread(item umbraco.ContentItem) models.Thread {
	p := item.Properties
	return models.Thread{
		ID:        item.ID,
		Category:  p.String("category"),
		Timestamp: or(p.String("timestamp"), item.CreateDate),
		Title:     or(p.String("title"), item.Name),
		User:      p.String("user"),
		Status:    or(p.String("status"), DefaultThreadStatus),
	}
}

// MapEvent maps an event item
func (m *Mapper) MapEvent(item umbraco.ContentItem) models.Event {
	p := item.Properties
	return models.Event{
		ID:        item.ID,
		Category:  p.String("category"),
		Timestamp: or(p.String("timestamp"), item.CreateDate),
		Title:     or(p.String("title"), item.Name),
		User:      p.String("user"),
		Status:    or(p.String("status"), DefaultEventStatus),
	}
}

// MapSpeaker maps a speaker item. ImageURL is nil when no image resolves.
func (m *Mapper) MapSpeaker(item umbraco.ContentItem) models.Speaker {
	p := item.Properties

	var imageURL *string
	if url := m.imageURL(p); url != "" {
		imageURL = &url
	}

	return models.Speaker{
		ID:             item.ID,
		Name:           or(p.String("speakerName"), item.Name),
		Role:           p.String("role"),
		Node:           p.String("node"),
		Status:         or(p.String("status"), DefaultSpeakerStatus),
		Handle:         p.String("handle"),
		ImageURL:       imageURL,
		Bio:            p.StringPtr("bio"),
		ClearanceLevel: p.StringPtr("clearanceLevel"),
		Slug:           item.Slug(),
	}
}

// MapProject maps a project item. ImageURL is "" when no image resolves.
func (m *Mapper) MapProject(item umbraco.ContentItem) models.Project {
	p := item.Properties

	tech := p.Strings("techStack")
	if tech == nil {
		tech = []string{}
	}

	return models.Project{
		ID:          item.ID,
		Title:       or(p.String("title"), item.Name),
		Author:      p.String("author"),
		Description: p.String("description"),
		ImageURL:    m.imageURL(p),
		Link:        or(p.String("link"), DefaultProjectLink),
		Client:      p.String("client"),
		Category:    p.String("category"),
		Tech:        tech,
		Slug:        item.Slug(),
	}
}

// MapThreads maps a list of thread items
func (m *Mapper) MapThreads(items []umbraco.ContentItem) []models.Thread {
	out := make([]models.Thread, 0, len(items))
	for _, item := range items {
		out = append(out, m.MapThread(item))
	}
	return out
}

// MapEvents maps a list of event items
func (m *Mapper) MapEvents(items []umbraco.ContentItem) []models.Event {
	out := make([]models.Event, 0, len(items))
	for _, item := range items {
		out = append(out, m.MapEvent(item))
	}
	return out
}

// MapSpeakers maps a list of speaker items
func (m *Mapper) MapSpeakers(items []umbraco.ContentItem) []models.Speaker {
	out := make([]models.Speaker, 0, len(items))
	for _, item := range items {
		out = append(out, m.MapSpeaker(item))
	}
	return out
}

// MapProjects maps a list of project items
func (m *Mapper) MapProjects(items []umbraco.ContentItem) []models.Project {
	out := make([]models.Project, 0, len(items))
	for _, item := range items {
		out = append(out, m.MapProject(item))
	}
	return out
}

// MapSiteSettings maps the site settings document; nil stays nil
func (m *Mapper) MapSiteSettings(item *umbraco.ContentItem) *models.SiteSettings {
	if item == nil {
		return nil
	}
	props := item.Properties
	if props == nil {
		props = umbraco.Properties{}
	}
	return &models.SiteSettings{
		Name:       item.Name,
		Properties: props,
	}
}

// imageURL reads the media picker ("image") or the legacy "imageUrl" property
// and returns an absolute URL.
func (m *Mapper) imageURL(p umbraco.Properties) string {
	raw := p.Value("image")
	if !p.Truthy("image") {
		raw = p.Value("imageUrl")
	}
	return AbsoluteMediaURL(m.mediaBaseURL, ResolveMedia(raw))
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
