package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"conference-site/pkg/config"
	"conference-site/pkg/models"
)

// FeedFile is the JSON dump of the site data written next to the pages
const FeedFile = "feed.json"

// DataSource provides the content for a build
type DataSource interface {
	GetSiteData(ctx context.Context) (*models.SiteData, error)
}

// Result describes what a build wrote
type Result struct {
	Pages  []string
	Assets int
}

// Builder writes the static site
type Builder struct {
	site     config.Site
	source   DataSource
	renderer *Renderer
	logger   *zap.Logger
}

// NewBuilder creates a builder writing to site.OutputDir
func NewBuilder(site config.Site, source DataSource, renderer *Renderer, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{site: site, source: source, renderer: renderer, logger: logger}
}

type page struct {
	route string
	view  string
	data  View
}

// Build fetches the site data and writes every page, the feed and the
// public assets. Pages are rendered concurrently; the first error stops the
// build.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	data, err := b.source.GetSiteData(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := b.plan(data)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(b.site.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, p := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return b.writePage(p)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := b.writeFeed(data); err != nil {
		return nil, err
	}

	assets, err := copyDir(b.site.PublicDir, b.site.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to copy public assets: %w", err)
	}

	result := &Result{Assets: assets}
	for _, p := range pages {
		result.Pages = append(result.Pages, p.route)
	}
	b.logger.Info("Site built",
		zap.String("output", b.site.OutputDir),
		zap.Int("pages", len(result.Pages)),
		zap.Int("assets", assets))
	return result, nil
}

func (b *Builder) plan(data *models.SiteData) ([]page, error) {
	home, err := b.renderer.HomeView(data)
	if err != nil {
		return nil, err
	}

	pages := []page{
		{route: "/", view: ViewIndex, data: home},
		{route: "/speakers", view: ViewSpeakers, data: SpeakersView(data)},
		{route: "/projects", view: ViewProjects, data: ProjectsView(data)},
	}
	for _, s := range data.Speakers {
		if s.Slug == "" {
			b.logger.Warn("Skipping speaker without route", zap.String("id", s.ID))
			continue
		}
		pages = append(pages, page{route: "/speakers/" + s.Slug, view: ViewSpeaker, data: SpeakerView(data, s)})
	}
	for _, p := range data.Projects {
		if p.Slug == "" {
			b.logger.Warn("Skipping project without route", zap.String("id", p.ID))
			continue
		}
		pages = append(pages, page{route: "/projects/" + p.Slug, view: ViewProject, data: ProjectView(data, p)})
	}
	return pages, nil
}

func (b *Builder) writePage(p page) error {
	var buf bytes.Buffer
	if err := b.renderer.Render(&buf, p.view, p.data); err != nil {
		return err
	}

	dst := filepath.Join(b.site.OutputDir, filepath.FromSlash(OutputPath(p.route)))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", p.route, err)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.route, err)
	}
	b.logger.Debug("Wrote page", zap.String("route", p.route), zap.String("file", dst))
	return nil
}

func (b *Builder) writeFeed(data *models.SiteData) error {
	feed, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feed: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.site.OutputDir, FeedFile), feed, 0644); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	return nil
}

// OutputPath returns the slash-separated file a route is written to:
// "/" is "index.html" and "/speakers" is "speakers/index.html".
func OutputPath(route string) string {
	clean := strings.Trim(path.Clean("/"+route), "/")
	if clean == "" {
		return "index.html"
	}
	return clean + "/index.html"
}

// copyDir copies every regular file under src into dst. A missing src copies
// nothing.
func copyDir(src, dst string) (int, error) {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	copied := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(p, target); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
