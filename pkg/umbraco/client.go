package umbraco

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"conference-site/pkg/config"
)

const (
	contentEndpoint = "/umbraco/delivery/api/v2/content"
	expandAll       = "properties[$all]"
)

// Filter is an extra query parameter appended to a content list request
type Filter struct {
	Key   string
	Value string
}

// Client is a read-only client for the Umbraco Delivery API v2. Every call
// builds its own request; nothing is cached, retried or deduplicated.
type Client struct {
	baseURL string
	apiKey  string
	doer    Doer
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithDoer replaces the HTTP transport
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithLogger sets the logger used for request failures
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client from the configuration. The API URL and key are
// required.
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIURL) == "" {
		return nil, config.ErrAPIURLNotSet
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, config.ErrAPIKeyNotSet
	}

	c := &Client{
		baseURL: strings.TrimSuffix(cfg.APIURL, "/"),
		apiKey:  cfg.APIKey,
		doer:    NewTransport(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchContentItems lists content items, optionally restricted to a content
// type, with all properties expanded. Only the first page returned by the API
// is read.
func (c *Client) FetchContentItems(ctx context.Context, contentType string, filters ...Filter) ([]ContentItem, error) {
	var params []Filter
	if contentType != "" {
		params = append(params, Filter{Key: "filter", Value: "contentType:" + contentType})
	}
	params = append(params, filters...)
	params = append(params,
		Filter{Key: "expand", Value: expandAll},
		Filter{Key: "fields", Value: expandAll},
	)
	endpoint := c.endpoint(contentEndpoint, params)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		c.logger.Error("Error fetching content from Umbraco", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("fetching content list: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		apiErr := newAPIError(resp, endpoint, false)
		c.logger.Error("Error fetching content from Umbraco", zap.String("url", endpoint), zap.Error(apiErr))
		return nil, apiErr
	}

	var data listResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding content list from %s: %w", endpoint, err)
	}

	if data.Total > len(data.Items) {
		c.logger.Debug("Content list truncated to first page",
			zap.String("contentType", contentType),
			zap.Int("total", data.Total),
			zap.Int("received", len(data.Items)))
	}

	if data.Items == nil {
		return []ContentItem{}, nil
	}
	return data.Items, nil
}

// FetchContentByRoute returns the item at route. A 404 yields nil, and so does
// a transport failure, so a missing route never aborts a build. Other non-2xx
// statuses return an *APIError carrying the response body.
func (c *Client) FetchContentByRoute(ctx context.Context, route string) (*ContentItem, error) {
	endpoint := c.endpoint(contentEndpoint+"/item", []Filter{
		{Key: "path", Value: route},
		{Key: "expand", Value: "properties"},
		{Key: "fields", Value: "*"},
	})

	item, err := c.fetchItem(ctx, endpoint)
	if err != nil {
		var te *transportError
		if errors.As(err, &te) {
			c.logger.Error("Error fetching content by route from Umbraco", zap.String("route", route), zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

// FetchContentByID returns the item with the given id. Like
// FetchContentByRoute, a 404 or a transport failure yields nil and other
// non-2xx statuses return an *APIError.
func (c *Client) FetchContentByID(ctx context.Context, id string) (*ContentItem, error) {
	endpoint := c.endpoint(contentEndpoint+"/item/"+url.PathEscape(id), []Filter{
		{Key: "expand", Value: expandAll},
		{Key: "fields", Value: expandAll},
	})

	item, err := c.fetchItem(ctx, endpoint)
	if err != nil {
		var te *transportError
		if errors.As(err, &te) {
			c.logger.Error("Error fetching content by ID from Umbraco", zap.String("id", id), zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

// FetchContentBySlug lists items of contentType and returns the first whose
// route ends in slug.
func (c *Client) FetchContentBySlug(ctx context.Context, slug, contentType string) (*ContentItem, error) {
	items, err := c.FetchContentItems(ctx, contentType)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Slug() == slug {
			return &items[i], nil
		}
	}
	return nil, nil
}

// FetchHomepage returns the root item when it is a homepage, falling back to
// the first item of type homepage.
func (c *Client) FetchHomepage(ctx context.Context) (*ContentItem, error) {
	root, err := c.FetchContentByRoute(ctx, "/")
	if err != nil {
		c.logger.Warn("Root route lookup failed, falling back to content type", zap.Error(err))
	}
	if root != nil && root.ContentType == TypeHomepage {
		return root, nil
	}

	return c.first(ctx, TypeHomepage)
}

// FetchSiteSettings returns the site settings document (header and footer
// configuration), or nil if there is none.
func (c *Client) FetchSiteSettings(ctx context.Context) (*ContentItem, error) {
	return c.first(ctx, TypeSiteSettings)
}

// FetchChildren returns the direct children of the item with parentID,
// optionally restricted to a content type. An unresolvable parent yields an
// empty list; list failures are returned.
func (c *Client) FetchChildren(ctx context.Context, parentID, contentType string) ([]ContentItem, error) {
	parent, err := c.FetchContentByID(ctx, parentID)
	if err != nil || parent == nil {
		c.logger.Warn("Parent not found", zap.String("parentId", parentID), zap.Error(err))
		return []ContentItem{}, nil
	}

	items, err := c.FetchContentItems(ctx, contentType)
	if err != nil {
		return nil, fmt.Errorf("fetching children of %s: %w", parentID, err)
	}

	children := make([]ContentItem, 0, len(items))
	for _, item := range items {
		if IsDirectChild(parent.Route.Path, item.Route.Path) {
			children = append(children, item)
		}
	}
	return children, nil
}

func (c *Client) first(ctx context.Context, contentType string) (*ContentItem, error) {
	items, err := c.FetchContentItems(ctx, contentType)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// transportError marks failures that happened before any response arrived
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// fetchItem performs a single-item request. 404 maps to (nil, nil).
func (c *Client) fetchItem(ctx context.Context, endpoint string) (*ContentItem, error) {
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !isSuccess(resp.StatusCode) {
		apiErr := newAPIError(resp, endpoint, true)
		c.logger.Error("Umbraco API error", zap.Int("status", apiErr.StatusCode), zap.String("body", apiErr.Body))
		return nil, apiErr
	}

	var item ContentItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("decoding content item from %s: %w", endpoint, err)
	}
	return &item, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.doer.Do(req)
}

// endpoint joins the base URL, path and query parameters, keeping the
// parameter order.
func (c *Client) endpoint(path string, params []Filter) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString(path)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

func newAPIError(resp *http.Response, endpoint string, withBody bool) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
		Endpoint:   endpoint,
	}
	if withBody {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			apiErr.Body = fmt.Sprintf("<unreadable: %v>", err)
		} else {
			apiErr.Body = string(body)
		}
	}
	return apiErr
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
