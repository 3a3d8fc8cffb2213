// Package routepath normalizes navigation paths before they reach the route
// table: canonical form, base prefix handling and relative resolution.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Canonical is a path split into its canonical path and raw query.
type Canonical struct {
	// Path is the canonical path, always starting with "/".
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Changed reports whether canonicalization rewrote the path. The
	// HTTP host redirects such requests to the canonical path.
	Changed bool
}

// String rebuilds the path with its query string.
func (c Canonical) String() string {
	if c.Query == "" {
		return c.Path
	}
	return c.Path + "?" + c.Query
}

// Path errors.
var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-catch-all segment")
	ErrAbsoluteURL           = errors.New("navigation target must not be an absolute URL")
)

// Canonicalize normalizes a URL path:
//   - a missing leading slash is added
//   - repeated slashes collapse (/a//b → /a/b)
//   - "." segments are dropped and ".." pops the previous segment
//   - a trailing slash is removed, except for "/"
//
// Backslashes, NUL bytes, malformed percent escapes and ".." above the root
// are rejected. A query string is carried through untouched.
func Canonicalize(input string) (Canonical, error) {
	if input == "" {
		return Canonical{Path: "/", Changed: true}, nil
	}

	raw, query, _ := strings.Cut(input, "?")

	if strings.Contains(raw, "\\") {
		return Canonical{}, ErrBackslashInPath
	}
	if strings.Contains(raw, "\x00") || strings.Contains(strings.ToUpper(raw), "%00") {
		return Canonical{}, ErrNullByteInPath
	}
	if strings.Contains(raw, "%") {
		if err := checkEscapes(raw); err != nil {
			return Canonical{}, err
		}
	}

	segments, err := cleanSegments(raw)
	if err != nil {
		return Canonical{}, err
	}

	path := "/" + strings.Join(segments, "/")
	return Canonical{
		Path:    path,
		Query:   query,
		Changed: path != raw,
	}, nil
}

// cleanSegments splits a raw path and applies "." and ".." rules.
func cleanSegments(raw string) ([]string, error) {
	var out []string
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return nil, ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return out, nil
}

// checkEscapes verifies every "%" is followed by two hex digits.
func checkEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// DecodeSegment unescapes a single path segment. Outside a catch-all an
// encoded slash is refused so that one segment cannot pose as two.
func DecodeSegment(segment string, catchAll bool) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if !catchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// Split returns the segments of a canonical path. "/" yields nil.
func Split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
