package router

import "context"

// Middleware wraps every navigation. Handle must call next to let the
// navigation proceed; returning without calling next aborts it, and the
// navigation fails with ErrNavigationAborted unless Handle returns its own
// error. An error from next is reported even if Handle drops it.
type Middleware interface {
	Handle(ctx context.Context, nav *Navigation, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx context.Context, nav *Navigation, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, nav *Navigation, next func() error) error {
	return f(ctx, nav, next)
}

// ComposeMiddleware runs mw in order with handler at the end of the chain.
// Each middleware receives the navigation's current context, so a context
// set with nav.SetContext is seen by the middleware after it.
func ComposeMiddleware(ctx context.Context, nav *Navigation, mw []Middleware, handler func() error) error {
	if nav.ctx == nil {
		nav.ctx = ctx
	}
	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(nav.Context(), nav, next)
		}
	}
	return chain()
}

// Chain combines several middleware into one.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
		return ComposeMiddleware(ctx, nav, middleware, next)
	})
}

// Only runs mw for navigations where cond holds.
func Only(cond func(nav *Navigation) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
		if !cond(nav) {
			return next()
		}
		return mw.Handle(ctx, nav, next)
	})
}
