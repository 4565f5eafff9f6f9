package umbraco

import "strings"

// Segments returns the non-empty path segments of a route
func Segments(route string) []string {
	parts := strings.Split(route, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Depth returns the number of non-empty segments in a route. The root is 0.
func Depth(route string) int {
	return len(Segments(route))
}

// Slug returns the last non-empty segment of a route, or "" for the root
func Slug(route string) string {
	segments := Segments(route)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// normalizeRoute strips one trailing slash; the root becomes "".
func normalizeRoute(route string) string {
	if route == "/" {
		return ""
	}
	return strings.TrimSuffix(route, "/")
}

// IsDirectChild reports whether child is exactly one level below parent.
// The parent's segments must be a prefix of the child's, so "/speakers-old/x"
// is not a child of "/speakers", and a route is never its own child.
func IsDirectChild(parent, child string) bool {
	if normalizeRoute(child) == normalizeRoute(parent) {
		return false
	}

	parentSegments := Segments(parent)
	childSegments := Segments(child)
	if len(childSegments) != len(parentSegments)+1 {
		return false
	}

	for i, segment := range parentSegments {
		if childSegments[i] != segment {
			return false
		}
	}
	return strings.HasPrefix(normalizeRoute(child), normalizeRoute(parent))
}
