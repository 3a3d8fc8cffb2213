package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vango-dev/vroute/pkg/routepath"
)

type segmentKind uint8

const (
	segStatic segmentKind = iota
	segParam
	segCatchAll
)

// segment is one compiled piece of a route pattern.
type segment struct {
	kind segmentKind

	// value is the literal for static segments and the parameter name
	// otherwise.
	value string
}

// pattern is a compiled route path.
type pattern struct {
	raw      string
	segments []segment
}

// compilePattern parses a route path such as "/accounts/:id/*rest".
func compilePattern(path string) (pattern, error) {
	if path == "" {
		return pattern{}, fmt.Errorf("%w: empty path", ErrInvalidRoute)
	}
	canon, err := routepath.Canonicalize(path)
	if err != nil {
		return pattern{}, fmt.Errorf("%w: path %q: %v", ErrInvalidRoute, path, err)
	}
	if canon.Query != "" {
		return pattern{}, fmt.Errorf("%w: path %q has a query string", ErrInvalidRoute, path)
	}

	p := pattern{raw: canon.Path}
	seen := make(map[string]bool)
	parts := routepath.Split(canon.Path)
	for i, part := range parts {
		var seg segment
		switch {
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return pattern{}, fmt.Errorf("%w: catch-all %q must be the last segment of %q", ErrInvalidRoute, part, path)
			}
			seg = segment{kind: segCatchAll, value: part[1:]}
		case strings.HasPrefix(part, ":"):
			seg = segment{kind: segParam, value: part[1:]}
		default:
			seg = segment{kind: segStatic, value: part}
		}
		if seg.kind != segStatic {
			if seg.value == "" {
				return pattern{}, fmt.Errorf("%w: unnamed parameter in %q", ErrInvalidRoute, path)
			}
			if seen[seg.value] {
				return pattern{}, fmt.Errorf("%w: parameter %q repeated in %q", ErrInvalidRoute, seg.value, path)
			}
			seen[seg.value] = true
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

// signature renders the pattern with parameter names erased, so that
// "/a/:id" and "/a/:key" compare equal.
func (p pattern) signature() string {
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		switch seg.kind {
		case segStatic:
			b.WriteString(seg.value)
		case segParam:
			b.WriteByte(':')
		case segCatchAll:
			b.WriteByte('*')
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// match tests canonical path segments against the pattern and returns
// captured parameters.
func (p pattern) match(parts []string) (map[string]string, bool) {
	params := make(map[string]string)
	for i, seg := range p.segments {
		if seg.kind == segCatchAll {
			rest := strings.Join(parts[min(i, len(parts)):], "/")
			v, err := routepath.DecodeSegment(rest, true)
			if err != nil {
				return nil, false
			}
			params[seg.value] = v
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		switch seg.kind {
		case segStatic:
			if parts[i] != seg.value {
				return nil, false
			}
		case segParam:
			v, err := routepath.DecodeSegment(parts[i], false)
			if err != nil || v == "" {
				return nil, false
			}
			params[seg.value] = v
		}
	}
	if len(parts) != len(p.segments) {
		return nil, false
	}
	return params, true
}

// build fills the pattern's parameters and returns a concrete path.
func (p pattern) build(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}
	var b strings.Builder
	for _, seg := range p.segments {
		switch seg.kind {
		case segStatic:
			b.WriteByte('/')
			b.WriteString(seg.value)
		case segParam:
			v, ok := params[seg.value]
			if !ok || v == "" {
				return "", fmt.Errorf("%w: %q in %s", ErrMissingParam, seg.value, p.raw)
			}
			if strings.ContainsAny(v, "/\x00") || v == "." || v == ".." {
				return "", fmt.Errorf("%w: %q=%q in %s", ErrInvalidParam, seg.value, v, p.raw)
			}
			b.WriteByte('/')
			b.WriteString(url.PathEscape(v))
		case segCatchAll:
			v := strings.Trim(params[seg.value], "/")
			if v == "" {
				continue
			}
			for _, part := range strings.Split(v, "/") {
				b.WriteByte('/')
				b.WriteString(url.PathEscape(part))
			}
		}
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}
