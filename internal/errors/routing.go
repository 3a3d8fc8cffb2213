package errors

import (
	stderrors "errors"

	"github.com/vango-dev/vroute/pkg/router"
)

// FromRouting converts a router error into a coded Error with a hint.
// Errors the router does not define are wrapped as E500.
func FromRouting(err error) *Error {
	if err == nil {
		return nil
	}
	var ve *Error
	if stderrors.As(err, &ve) {
		return ve
	}
	switch {
	case stderrors.Is(err, router.ErrNoMatchingRoute):
		return New("E201").Wrap(err).
			WithSuggestion("Run `vroute routes` to list the table.")
	case stderrors.Is(err, router.ErrUnknownRoute):
		return New("E202").Wrap(err).
			WithSuggestion("Route names are case sensitive. Run `vroute routes` to list them.")
	case stderrors.Is(err, router.ErrMissingParam):
		return New("E203").Wrap(err).
			WithSuggestion("Pass parameters as key=value arguments.").
			WithExample("vroute resolve account id=42")
	case stderrors.Is(err, router.ErrInvalidParam):
		return New("E205").Wrap(err).
			WithSuggestion("Use a catch-all segment (*rest) for values that span segments.")
	case stderrors.Is(err, router.ErrNavigationAborted):
		return New("E206").Wrap(err)
	case stderrors.Is(err, router.ErrDuplicateRouteName):
		return New("E204").Wrap(err)
	case stderrors.Is(err, router.ErrDuplicateRoutePath), stderrors.Is(err, router.ErrInvalidRoute):
		return New("E200").Wrap(err)
	case stderrors.Is(err, router.ErrModuleLoad):
		return New("E300").Wrap(err)
	}
	return New("E500").Wrap(err)
}
