package umbraco

import (
	"fmt"
	"strconv"
)

// Content type aliases used by the site
const (
	TypeHomepage     = "homepage"
	TypeSiteSettings = "siteSettings"
	TypeSpeaker      = "speaker"
	TypeProject      = "project"
	TypeEvent        = "event"
	TypeThread       = "thread"
)

// Route is the routing information of a content item
type Route struct {
	Path string `json:"path"`
}

// ContentItem is a content node as returned by the Delivery API
type ContentItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ContentType string     `json:"contentType"`
	Route       Route      `json:"route"`
	Properties  Properties `json:"properties"`
	CreateDate  string     `json:"createDate"`
	UpdateDate  string     `json:"updateDate"`
}

// listResponse is the envelope of the content list endpoint
type listResponse struct {
	Items []ContentItem `json:"items"`
	Total int           `json:"total"`
}

// Properties is the loosely-typed property bag of a content item. All
// accessors are total: a missing key or an unexpected shape yields the zero
// value rather than an error.
type Properties map[string]any

// Value returns the raw value stored under key
func (p Properties) Value(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// String returns the value under key as a string. Numbers and booleans are
// formatted; objects, arrays and null yield "".
func (p Properties) String(key string) string {
	switch v := p.Value(key).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// StringPtr returns the string under key, or nil when it is absent or empty
func (p Properties) StringPtr(key string) *string {
	s := p.String(key)
	if s == "" {
		return nil
	}
	return &s
}

// Strings returns the string elements of the array under key. Non-string
// elements are skipped; a missing or non-array value yields nil.
func (p Properties) Strings(key string) []string {
	switch v := p.Value(key).(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Truthy reports whether the value under key would count as present in the
// CMS payload: non-nil, and not an empty string.
func (p Properties) Truthy(key string) bool {
	switch v := p.Value(key).(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	default:
		return true
	}
}

// Slug returns the last non-empty segment of the item's route
func (c ContentItem) Slug() string {
	return Slug(c.Route.Path)
}
