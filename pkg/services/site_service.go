package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"conference-site/pkg/blocks"
	"conference-site/pkg/config"
	"conference-site/pkg/mappers"
	"conference-site/pkg/models"
	"conference-site/pkg/umbraco"
)

// ErrNotFound is returned when a page or entity does not exist in the CMS
var ErrNotFound = errors.New("content not found")

const siteDataKey = "site"

// ContentSource is the part of the CMS client the service reads from
type ContentSource interface {
	FetchContentItems(ctx context.Context, contentType string, filters ...umbraco.Filter) ([]umbraco.ContentItem, error)
	FetchContentByRoute(ctx context.Context, route string) (*umbraco.ContentItem, error)
	FetchContentBySlug(ctx context.Context, slug, contentType string) (*umbraco.ContentItem, error)
	FetchHomepage(ctx context.Context) (*umbraco.ContentItem, error)
	FetchSiteSettings(ctx context.Context) (*umbraco.ContentItem, error)
}

// Service fetches CMS content and maps it into site entities
type Service struct {
	config    *config.Config
	source    ContentSource
	mapper    *mappers.Mapper
	logger    *zap.Logger
	siteCache *cache.Cache
	mu        sync.RWMutex
}

var (
	// defaultService is the singleton instance of Service
	defaultService *Service
	initErr        error
	once           sync.Once
)

// NewService creates a service reading from source
func NewService(cfg *config.Config, source ContentSource, mapper *mappers.Mapper, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		config:    cfg,
		source:    source,
		mapper:    mapper,
		logger:    logger,
		siteCache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// InitService initializes the default service with a Delivery API client
func InitService(cfg *config.Config, logger *zap.Logger) error {
	once.Do(func() {
		client, err := umbraco.NewClient(cfg, umbraco.WithLogger(logger))
		if err != nil {
			initErr = fmt.Errorf("failed to create content client: %w", err)
			return
		}
		defaultService = NewService(cfg, client, mappers.NewMapper(cfg.MediaBaseURL()), logger)
	})
	return initErr
}

// Default returns the service created by InitService
func Default() *Service {
	return defaultService
}

// GetSiteData returns everything the site build needs
func GetSiteData(ctx context.Context) (*models.SiteData, error) {
	return defaultService.GetSiteData(ctx)
}

// GetSpeakers returns all speakers
func GetSpeakers(ctx context.Context) ([]models.Speaker, error) {
	return defaultService.GetSpeakers(ctx)
}

// GetProjects returns all projects
func GetProjects(ctx context.Context) ([]models.Project, error) {
	return defaultService.GetProjects(ctx)
}

// GetSpeaker returns the speaker with the given slug
func GetSpeaker(ctx context.Context, slug string) (models.Speaker, error) {
	return defaultService.GetSpeaker(ctx, slug)
}

// GetProject returns the project with the given slug
func GetProject(ctx context.Context, slug string) (models.Project, error) {
	return defaultService.GetProject(ctx, slug)
}

// GetPage returns the block page at route
func GetPage(ctx context.Context, route string) (*models.Page, error) {
	return defaultService.GetPage(ctx, route)
}

// GetSiteData returns the site data, fetching every collection concurrently
// on a cache miss. The first failing fetch cancels the rest.
func (s *Service) GetSiteData(ctx context.Context) (*models.SiteData, error) {
	s.mu.RLock()
	if cached, found := s.siteCache.Get(siteDataKey); found {
		s.mu.RUnlock()
		s.logger.Debug("Using cached site data")
		return cached.(*models.SiteData), nil
	}
	s.mu.RUnlock()

	s.logger.Info("Fetching site data")

	var data models.SiteData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Speakers, err = s.GetSpeakers(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Projects, err = s.GetProjects(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Events, err = s.GetEvents(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Threads, err = s.GetThreads(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Homepage, err = s.GetHomepage(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Settings, err = s.GetSettings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.siteCache.Set(siteDataKey, &data, cache.DefaultExpiration)
	s.mu.Unlock()

	return &data, nil
}

// Invalidate drops the cached site data
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.siteCache.Flush()
	s.mu.Unlock()
}

// GetSpeakers returns all speakers
func (s *Service) GetSpeakers(ctx context.Context) ([]models.Speaker, error) {
	items, err := s.source.FetchContentItems(ctx, umbraco.TypeSpeaker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch speakers: %w", err)
	}
	return s.mapper.MapSpeakers(items), nil
}

// GetProjects returns all projects
func (s *Service) GetProjects(ctx context.Context) ([]models.Project, error) {
	items, err := s.source.FetchContentItems(ctx, umbraco.TypeProject)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	return s.mapper.MapProjects(items), nil
}

// GetEvents returns all events
func (s *Service) GetEvents(ctx context.Context) ([]models.Event, error) {
	items, err := s.source.FetchContentItems(ctx, umbraco.TypeEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return s.mapper.MapEvents(items), nil
}

// GetThreads returns all threads
func (s *Service) GetThreads(ctx context.Context) ([]models.Thread, error) {
	items, err := s.source.FetchContentItems(ctx, umbraco.TypeThread)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}
	return s.mapper.MapThreads(items), nil
}

// GetSettings returns the site settings, or nil when none are published
func (s *Service) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	item, err := s.source.FetchSiteSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch site settings: %w", err)
	}
	return s.mapper.MapSiteSettings(item), nil
}

// GetHomepage returns the home page with its blocks, or nil when none exists
func (s *Service) GetHomepage(ctx context.Context) (*models.Page, error) {
	item, err := s.source.FetchHomepage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch homepage: %w", err)
	}
	if item == nil {
		s.logger.Warn("No homepage published")
		return nil, nil
	}
	return s.page(item), nil
}

// GetPage returns the page at route with its blocks
func (s *Service) GetPage(ctx context.Context, route string) (*models.Page, error) {
	item, err := s.source.FetchContentByRoute(ctx, route)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %s: %w", route, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, route)
	}
	return s.page(item), nil
}

// GetSpeaker returns the speaker whose route ends in slug
func (s *Service) GetSpeaker(ctx context.Context, slug string) (models.Speaker, error) {
	item, err := s.source.FetchContentBySlug(ctx, slug, umbraco.TypeSpeaker)
	if err != nil {
		return models.Speaker{}, fmt.Errorf("failed to fetch speaker %s: %w", slug, err)
	}
	if item == nil {
		return models.Speaker{}, fmt.Errorf("%w: speaker %s", ErrNotFound, slug)
	}
	return s.mapper.MapSpeaker(*item), nil
}

// GetProject returns the project whose route ends in slug
func (s *Service) GetProject(ctx context.Context, slug string) (models.Project, error) {
	item, err := s.source.FetchContentBySlug(ctx, slug, umbraco.TypeProject)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to fetch project %s: %w", slug, err)
	}
	if item == nil {
		return models.Project{}, fmt.Errorf("%w: project %s", ErrNotFound, slug)
	}
	return s.mapper.MapProject(*item), nil
}

func (s *Service) page(item *umbraco.ContentItem) *models.Page {
	return &models.Page{
		ID:     item.ID,
		Name:   item.Name,
		Route:  item.Route.Path,
		Blocks: blocks.InOrder(item.Properties.Value(s.config.Site.BlocksProperty)),
	}
}
