package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vroute/pkg/router"
)

// Default tracer name for vroute routers.
const defaultTracerName = "vroute"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "vroute").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// IncludeQuery records the target's query string. Queries may carry
	// sensitive values, so this is disabled by default.
	IncludeQuery bool

	// Filter determines which navigations to trace.
	// If nil, all navigations are traced.
	Filter func(nav *router.Navigation) bool

	// AttributeExtractor adds custom attributes once the navigation
	// has finished.
	AttributeExtractor func(nav *router.Navigation) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeQuery enables recording the query string.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(nav *router.Navigation) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(nav *router.Navigation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every navigation.
//
// The middleware:
//   - Starts a span per navigation with its id, mode and target
//   - Hands the span's context to the view fetch via nav.SetContext
//   - Records errors and sets span status
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	config.tracer = tp.Tracer(config.TracerName)

	return router.MiddlewareFunc(func(ctx context.Context, nav *router.Navigation, next func() error) error {
		if config.Filter != nil && !config.Filter(nav) {
			return next()
		}

		path, query, _ := strings.Cut(nav.To, "?")
		attrs := []attribute.KeyValue{
			attribute.String("vroute.navigation_id", nav.ID),
			attribute.String("vroute.mode", nav.Mode.String()),
			attribute.String("vroute.path", path),
		}
		if config.IncludeQuery && query != "" {
			attrs = append(attrs, attribute.String("vroute.query", query))
		}
		if nav.Match != nil {
			attrs = append(attrs, attribute.String("vroute.route", nav.RouteName()))
		}

		spanCtx, span := config.tracer.Start(ctx, formatSpanName(nav),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		nav.SetContext(spanCtx)
		err := next()

		if config.AttributeExtractor != nil {
			span.SetAttributes(config.AttributeExtractor(nav)...)
		}
		switch {
		case err == nil:
			span.SetStatus(codes.Ok, "")
		case errors.Is(err, router.ErrNavigationSuperseded):
			span.SetAttributes(attribute.Bool("vroute.superseded", true))
			span.SetStatus(codes.Unset, "")
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	})
}

// SpanFromNavigation returns the navigation's trace span. It returns a
// no-op span when the navigation is not traced.
func SpanFromNavigation(nav *router.Navigation) trace.Span {
	return trace.SpanFromContext(nav.Context())
}

func formatSpanName(nav *router.Navigation) string {
	if name := nav.RouteName(); name != "" {
		return fmt.Sprintf("vroute navigate %s", name)
	}
	return "vroute navigate"
}
