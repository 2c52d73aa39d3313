package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/internal/auth"
	"github.com/Alturino/grocery/internal/errors"
	inHttp "github.com/Alturino/grocery/internal/http"
	"github.com/Alturino/grocery/internal/log"
	"github.com/Alturino/grocery/internal/otel"
)

func Auth(secretKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Auth")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware Auth").Logger()
			c = logger.WithContext(c)

			authorization := r.Header.Get(inHttp.KeyHeaderAuthorization)
			if len(authorization) <= len(inHttp.ValueBearerPrefix) ||
				!strings.EqualFold(authorization[:len(inHttp.ValueBearerPrefix)], inHttp.ValueBearerPrefix) {
				err := fmt.Errorf("failed reading authorization header with error=%w", errors.ErrEmptyAuth)
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, errors.ErrUnauthenticated)
				return
			}

			token := authorization[len(inHttp.ValueBearerPrefix):]
			jwtToken, err := auth.VerifyToken(c, token, secretKey)
			if err != nil {
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, errors.ErrUnauthenticated)
				return
			}

			c = auth.AttachJwtToken(c, jwtToken)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
