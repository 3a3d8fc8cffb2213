package router

import (
	"fmt"
	"net/url"
	"sort"
)

// NavigateOptions configures a single navigation.
type NavigateOptions struct {
	// Replace overwrites the current history entry instead of pushing.
	Replace bool

	// Query is merged into the target's query string.
	Query map[string]any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithQuery adds query parameters to the navigation target. Values are
// formatted with %v and override parameters already in the path.
func WithQuery(params map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		if o.Query == nil {
			o.Query = make(map[string]any, len(params))
		}
		for k, v := range params {
			o.Query[k] = v
		}
	}
}

func (o NavigateOptions) mode() Mode {
	if o.Replace {
		return ModeReplace
	}
	return ModePush
}

// mergeQuery applies extra parameters to a raw query string.
func mergeQuery(rawQuery string, extra map[string]any) (string, error) {
	if len(extra) == 0 {
		return rawQuery, nil
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", err
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, fmt.Sprintf("%v", extra[k]))
	}
	return q.Encode(), nil
}
