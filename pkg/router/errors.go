package router

import (
	"errors"
	"fmt"
)

// Routing errors. Callers match them with errors.Is.
var (
	// ErrNoMatchingRoute is returned when no route pattern matches a path.
	ErrNoMatchingRoute = errors.New("no matching route")

	// ErrUnknownRoute is returned when a route name is not in the table.
	ErrUnknownRoute = errors.New("unknown route")

	// ErrModuleLoad is returned when a deferred view fails to load.
	ErrModuleLoad = errors.New("view module load failed")

	// ErrDuplicateRouteName is returned by NewTable when two routes share a name.
	ErrDuplicateRouteName = errors.New("duplicate route name")

	// ErrDuplicateRoutePath is returned by NewTable when two routes share a path.
	ErrDuplicateRoutePath = errors.New("duplicate route path")

	// ErrInvalidRoute is returned by NewTable for a malformed route definition.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrMissingParam is returned by Resolve when a path parameter has no value.
	ErrMissingParam = errors.New("missing route parameter")

	// ErrInvalidParam is returned by Resolve when a parameter value cannot
	// occupy a single path segment, e.g. it contains "/", and by Match.Bind
	// when a value does not convert to its field's type.
	ErrInvalidParam = errors.New("invalid route parameter")

	// ErrNavigationAborted is returned when middleware ends a navigation
	// without calling next and without an error of its own.
	ErrNavigationAborted = errors.New("navigation aborted by middleware")

	// ErrNavigationSuperseded is returned by a navigation that was overtaken
	// by a later one while its view was loading.
	ErrNavigationSuperseded = errors.New("navigation superseded")

	// ErrNoActiveRoute is returned by Render before any navigation committed.
	ErrNoActiveRoute = errors.New("no active route")

	// ErrNoHistory is returned by Start when the router has no history adapter.
	ErrNoHistory = errors.New("router has no history adapter")
)

// UnknownRouteError reports a route name missing from the table.
type UnknownRouteError struct {
	Name string
}

func (e *UnknownRouteError) Error() string {
	return fmt.Sprintf("unknown route %q", e.Name)
}

// Is makes UnknownRouteError match ErrUnknownRoute.
func (e *UnknownRouteError) Is(target error) bool {
	return target == ErrUnknownRoute
}

// ModuleLoadError wraps the failure of a deferred view fetch.
type ModuleLoadError struct {
	Route string
	Err   error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("loading view for route %q: %v", e.Route, e.Err)
}

// Unwrap returns the loader's error.
func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}

// Is makes ModuleLoadError match ErrModuleLoad.
func (e *ModuleLoadError) Is(target error) bool {
	return target == ErrModuleLoad
}
