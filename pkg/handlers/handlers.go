package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"conference-site/pkg/models"
	"conference-site/pkg/services"
	"conference-site/pkg/site"
)

// SiteService is what the preview server reads content from
type SiteService interface {
	GetSiteData(ctx context.Context) (*models.SiteData, error)
	GetSpeaker(ctx context.Context, slug string) (models.Speaker, error)
	GetProject(ctx context.Context, slug string) (models.Project, error)
	GetPage(ctx context.Context, route string) (*models.Page, error)
}

// Handlers serves the site straight from the CMS
type Handlers struct {
	service  SiteService
	renderer *site.Renderer
	logger   *zap.Logger
}

// New creates the preview handlers
func New(service SiteService, renderer *site.Renderer, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{service: service, renderer: renderer, logger: logger}
}

// Routes returns a mux serving pages, the feed and files from publicDir
func (h *Handlers) Routes(publicDir string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(publicDir)))
	mux.HandleFunc("GET /{$}", h.IndexHandler)
	mux.HandleFunc("GET /feed.json", h.FeedHandler)
	mux.HandleFunc("GET /speakers", h.SpeakersHandler)
	mux.HandleFunc("GET /speakers/{$}", h.SpeakersHandler)
	mux.HandleFunc("GET /speakers/{slug}", h.SpeakerHandler)
	mux.HandleFunc("GET /speakers/{slug}/{$}", h.SpeakerHandler)
	mux.HandleFunc("GET /projects", h.ProjectsHandler)
	mux.HandleFunc("GET /projects/{$}", h.ProjectsHandler)
	mux.HandleFunc("GET /projects/{slug}", h.ProjectHandler)
	mux.HandleFunc("GET /projects/{slug}/{$}", h.ProjectHandler)
	mux.HandleFunc("GET /pages/{route...}", h.PageHandler)
	return mux
}

// IndexHandler renders the home page
func (h *Handlers) IndexHandler(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Generating index")

	data, ok := h.siteData(w, r)
	if !ok {
		return
	}
	view, err := h.renderer.HomeView(data)
	if err != nil {
		h.fail(w, "Failed to build home view", err)
		return
	}
	h.render(w, site.ViewIndex, view)
}

// FeedHandler serves the site data as JSON
func (h *Handlers) FeedHandler(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Generating feed")

	data, ok := h.siteData(w, r)
	if !ok {
		return
	}

	jsonString, err := json.Marshal(data)
	if err != nil {
		h.fail(w, "Failed to marshal feed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(jsonString)
}

// SpeakersHandler renders the speaker archive
func (h *Handlers) SpeakersHandler(w http.ResponseWriter, r *http.Request) {
	data, ok := h.siteData(w, r)
	if !ok {
		return
	}
	h.render(w, site.ViewSpeakers, site.SpeakersView(data))
}

// ProjectsHandler renders the project archive
func (h *Handlers) ProjectsHandler(w http.ResponseWriter, r *http.Request) {
	data, ok := h.siteData(w, r)
	if !ok {
		return
	}
	h.render(w, site.ViewProjects, site.ProjectsView(data))
}

// SpeakerHandler renders one speaker
func (h *Handlers) SpeakerHandler(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	speaker, err := h.service.GetSpeaker(r.Context(), slug)
	if err != nil {
		h.notFoundOr(w, r, "Failed to load speaker", err)
		return
	}
	data, ok := h.siteData(w, r)
	if !ok {
		return
	}
	h.logger.Debug("Generating speaker page", zap.String("slug", slug))
	h.render(w, site.ViewSpeaker, site.SpeakerView(data, speaker))
}

// ProjectHandler renders one project
func (h *Handlers) ProjectHandler(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	project, err := h.service.GetProject(r.Context(), slug)
	if err != nil {
		h.notFoundOr(w, r, "Failed to load project", err)
		return
	}
	data, ok := h.siteData(w, r)
	if !ok {
		return
	}
	h.logger.Debug("Generating project page", zap.String("slug", slug))
	h.render(w, site.ViewProject, site.ProjectView(data, project))
}

// PageHandler renders any routed CMS page by its block list
func (h *Handlers) PageHandler(w http.ResponseWriter, r *http.Request) {
	route := "/" + r.PathValue("route")
	page, err := h.service.GetPage(r.Context(), route)
	if err != nil {
		h.notFoundOr(w, r, "Failed to load page", err)
		return
	}
	data, ok := h.siteData(w, r)
	if !ok {
		return
	}
	view, err := h.renderer.PageView(data, page)
	if err != nil {
		h.fail(w, "Failed to build page view", err)
		return
	}
	h.render(w, site.ViewIndex, view)
}

func (h *Handlers) siteData(w http.ResponseWriter, r *http.Request) (*models.SiteData, bool) {
	data, err := h.service.GetSiteData(r.Context())
	if err != nil {
		h.logger.Error("Failed to load site data", zap.Error(err))
		http.Error(w, "content unavailable", http.StatusBadGateway)
		return nil, false
	}
	return data, true
}

func (h *Handlers) notFoundOr(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, services.ErrNotFound) {
		h.logger.Info("Content not found", zap.String("path", r.URL.Path))
		http.NotFound(w, r)
		return
	}
	h.logger.Error(msg, zap.Error(err))
	http.Error(w, "content unavailable", http.StatusBadGateway)
}

func (h *Handlers) render(w http.ResponseWriter, view string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view, data); err != nil {
		h.fail(w, "Failed to render view", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
