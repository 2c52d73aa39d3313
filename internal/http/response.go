package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/internal/constants"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str("tag", "WriteJsonResponse").Logger()

	w.Header().Set(KeyHeaderContentType, ValueHeaderApplicationJson)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	if v, ok := body["statusCode"].(int); ok {
		w.WriteHeader(v)
	}

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

// StatusCodeFromError maps domain errors onto the HTTP status the client
// classifies them by.
func StatusCodeFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, inErrors.ErrValidation),
		errors.Is(err, inErrors.ErrInvalidCoupon),
		errors.Is(err, inErrors.ErrEmptyCart),
		errors.Is(err, inErrors.ErrTotalMismatch),
		errors.Is(err, inErrors.ErrAddressNotOwned),
		errors.Is(err, inErrors.ErrUnsupportedMethod),
		errors.Is(err, inErrors.ErrAlreadyExists),
		errors.Is(err, inErrors.ErrEmailRegistered):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrUnauthenticated),
		errors.Is(err, inErrors.ErrPasswordMismatch),
		errors.Is(err, inErrors.ErrEmptyAuth),
		errors.Is(err, inErrors.ErrEmptySubject),
		errors.Is(err, inErrors.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, inErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, inErrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func WriteErrorResponse(c context.Context, w http.ResponseWriter, err error) {
	statusCode := StatusCodeFromError(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = "internal server error"
		if errors.Is(err, inErrors.ErrCheckoutFailed) {
			message = inErrors.ErrCheckoutFailed.Error()
		}
	}
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusFailed,
		"statusCode": statusCode,
		"message":    message,
	})
}
