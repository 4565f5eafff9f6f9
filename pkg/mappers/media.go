package mappers

import (
	"strings"

	"github.com/ohler55/ojg/jp"
)

// mediaExtractor pulls a media URL out of one known property shape
type mediaExtractor func(v any) string

// mediaExtractors lists the shapes a media picker value can take, in the
// order they are tried.
var mediaExtractors = []mediaExtractor{
	bareString,
	jsonPath("$.url"),
	jsonPath("$[0].url"),
	jsonPath("$[0].src"),
	jsonPath("$[0].content.url"),
	jsonPath("$[0].mediaItems[0].url"),
	jsonPath("$[0].mediaItems[0].src"),
}

func bareString(v any) string {
	s, _ := v.(string)
	return s
}

func jsonPath(expr string) mediaExtractor {
	x := jp.MustParseString(expr)
	return func(v any) string {
		switch v.(type) {
		case map[string]any, []any:
		default:
			return ""
		}
		s, _ := x.First(v).(string)
		return s
	}
}

// ResolveMedia returns the first non-empty URL found by the media extractors,
// or "" if the value has no recognizable shape.
func ResolveMedia(v any) string {
	if v == nil {
		return ""
	}
	for _, extract := range mediaExtractors {
		if url := extract(v); url != "" {
			return url
		}
	}
	return ""
}

// AbsoluteMediaURL prefixes a relative media path with the CMS base URL.
// Absolute http(s) URLs are returned unchanged, and so is any path when no
// base URL is known.
func AbsoluteMediaURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
