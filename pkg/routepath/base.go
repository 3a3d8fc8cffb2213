package routepath

import (
	"net/url"
	"strings"
)

// NormalizeBase turns a configured base prefix into the form used for
// stripping and joining: "" for the root, otherwise "/seg[/seg...]" with no
// trailing slash. "./" and full URLs (as bundlers emit for BASE_URL) are
// accepted; only the path part of a URL is kept.
func NormalizeBase(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" || base == "/" || base == "./" || base == "." {
		return "", nil
	}
	if strings.Contains(base, "://") {
		u, err := url.Parse(base)
		if err != nil {
			return "", ErrInvalidPath
		}
		base = u.Path
	}
	c, err := Canonicalize(base)
	if err != nil {
		return "", err
	}
	if c.Query != "" {
		return "", ErrInvalidPath
	}
	if c.Path == "/" {
		return "", nil
	}
	return c.Path, nil
}

// StripBase removes a normalized base from a browser location. It reports
// false when the location lies outside the base.
func StripBase(base, location string) (string, bool) {
	if base == "" {
		return location, true
	}
	path, query, hasQuery := strings.Cut(location, "?")
	var rest string
	switch {
	case path == base || path == base+"/":
		rest = "/"
	case strings.HasPrefix(path, base+"/"):
		rest = path[len(base):]
	default:
		return location, false
	}
	if hasQuery {
		rest += "?" + query
	}
	return rest, true
}

// JoinBase prefixes an app path with a normalized base.
func JoinBase(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// ResolveRelative resolves target against the current app path the way a
// browser resolves an href. Absolute targets are returned as given.
// Targets carrying a scheme or host are refused.
func ResolveRelative(current, target string) (string, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return "", ErrInvalidPath
	}
	if ref.Scheme != "" || ref.Host != "" || strings.HasPrefix(target, "//") {
		return "", ErrAbsoluteURL
	}
	if strings.HasPrefix(target, "/") {
		return target, nil
	}
	if current == "" {
		current = "/"
	}
	cur, err := url.Parse(current)
	if err != nil {
		return "", ErrInvalidPath
	}
	return cur.ResolveReference(ref).RequestURI(), nil
}
