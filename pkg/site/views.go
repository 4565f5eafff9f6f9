package site

import (
	"html/template"

	"conference-site/pkg/content"
	"conference-site/pkg/models"
	"conference-site/pkg/widgets"
)

const defaultSiteName = "UIUG 2026"

// View is the data a page template is executed with
type View struct {
	Title     string
	SiteName  string
	Footer    string
	Page      *models.Page
	Blocks    []template.HTML
	Speakers  []SpeakerCard
	Projects  []ProjectCard
	Events    []models.Event
	Threads   []models.Thread
	Speaker   *models.Speaker
	Project   *models.Project
	Bio       template.HTML
	Summary   string
	BootLines []string
}

func baseView(data *models.SiteData, title string) View {
	v := View{
		Title:     title,
		SiteName:  defaultSiteName,
		Speakers:  speakerCards(data.Speakers),
		Projects:  projectCards(data.Projects),
		Events:    displayEvents(data.Events),
		Threads:   data.Threads,
		BootLines: widgets.BootLines,
	}
	if s := data.Settings; s != nil {
		if name, ok := s.Properties["siteName"].(string); ok && name != "" {
			v.SiteName = name
		}
		if footer, ok := s.Properties["footerText"].(string); ok {
			v.Footer = footer
		}
	}
	if v.Title == "" {
		v.Title = v.SiteName
	}
	return v
}

// SpeakerCard is a speaker with the URL of its detail page
type SpeakerCard struct {
	models.Speaker
	URL string
}

// ProjectCard is a project with the URL of its detail page
type ProjectCard struct {
	models.Project
	URL string
}

func speakerCards(speakers []models.Speaker) []SpeakerCard {
	out := make([]SpeakerCard, 0, len(speakers))
	for _, s := range speakers {
		out = append(out, SpeakerCard{Speaker: s, URL: detailURL("/speakers", s.Slug)})
	}
	return out
}

func projectCards(projects []models.Project) []ProjectCard {
	out := make([]ProjectCard, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectCard{Project: p, URL: detailURL("/projects", p.Slug)})
	}
	return out
}

func detailURL(section, slug string) string {
	if slug == "" {
		return section
	}
	return section + "/" + slug + "/"
}

// displayEvents copies events with human-readable timestamps
func displayEvents(events []models.Event) []models.Event {
	out := make([]models.Event, len(events))
	for i, e := range events {
		e.Timestamp = content.FormatDate(e.Timestamp)
		out[i] = e
	}
	return out
}

// HomeView builds the home page view with its rendered blocks
func (r *Renderer) HomeView(data *models.SiteData) (View, error) {
	if data.Homepage == nil {
		return baseView(data, ""), nil
	}
	return r.PageView(data, data.Homepage)
}

// PageView builds the view of a block page
func (r *Renderer) PageView(data *models.SiteData, page *models.Page) (View, error) {
	title := page.Name
	if page.Route == "/" {
		title = ""
	}
	v := baseView(data, title)
	rendered, err := r.RenderBlocks(page.Blocks, data)
	if err != nil {
		return View{}, err
	}
	v.Page = page
	v.Blocks = rendered
	return v, nil
}

// SpeakersView builds the speaker archive view
func SpeakersView(data *models.SiteData) View {
	return baseView(data, "Speakers")
}

// ProjectsView builds the project archive view
func ProjectsView(data *models.SiteData) View {
	return baseView(data, "Projects")
}

// SpeakerView builds a speaker detail view
func SpeakerView(data *models.SiteData, speaker models.Speaker) View {
	v := baseView(data, speaker.Name)
	v.Speaker = &speaker
	if speaker.Bio != nil {
		v.Bio = template.HTML(content.RenderRichText(*speaker.Bio))
		v.Summary = content.Excerpt(*speaker.Bio, 150)
	}
	return v
}

// ProjectView builds a project detail view
func ProjectView(data *models.SiteData, project models.Project) View {
	v := baseView(data, project.Title)
	v.Project = &project
	v.Summary = content.Excerpt(project.Description, 150)
	return v
}
