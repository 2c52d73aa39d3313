package otel

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/Alturino/grocery/internal/errors"
)

// callerErrors are answered with a 4xx and leave the span status unset.
var callerErrors = []error{
	inErrors.ErrValidation,
	inErrors.ErrUnauthenticated,
	inErrors.ErrForbidden,
	inErrors.ErrNotFound,
	inErrors.ErrAlreadyExists,
	inErrors.ErrInvalidCoupon,
	inErrors.ErrCheckoutInFlight,
}

func RecordError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.RecordError(err)
	for _, target := range callerErrors {
		if errors.Is(err, target) {
			return
		}
	}
	span.SetStatus(codes.Error, err.Error())
}
