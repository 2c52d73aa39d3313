package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	inErrors "github.com/Alturino/grocery/internal/errors"
	inHttp "github.com/Alturino/grocery/internal/http"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/storefront/internal/otel"
)

// StatusError is a non 2xx answer from the API. It unwraps to the error
// class the status code stands for.
type StatusError struct {
	StatusCode int
	Message    string
	class      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d message=%s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.class
}

func classify(statusCode int) error {
	switch {
	case statusCode == http.StatusUnauthorized:
		return inErrors.ErrUnauthenticated
	case statusCode == http.StatusForbidden:
		return inErrors.ErrForbidden
	case statusCode == http.StatusNotFound:
		return inErrors.ErrNotFound
	case statusCode >= http.StatusInternalServerError:
		return inErrors.ErrTransientNetwork
	default:
		return inErrors.ErrValidation
	}
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// Client talks to the grocery API. BaseURL includes the /api prefix.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient traces every request through otelhttp. A nil httpClient uses a
// client with no timeout besides the transport defaults.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Do sends body as JSON and decodes the envelope's data into out when out is
// not nil. Failing to reach the API wraps ErrTransientNetwork.
func (cl *Client) Do(c context.Context, method string, path string, token string, body interface{}, out interface{}) error {
	c, span := otel.Tracer.Start(c, "Client Do")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Client Do").
		Str(log.KeyRequestMethod, method).
		Str(log.KeyRequestURI, path).
		Str(log.KeyProcess, "encoding request").
		Logger()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			err = fmt.Errorf("failed encoding request body with error=%w: %w", inErrors.ErrValidation, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(c, method, cl.baseURL+path, reader)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set(inHttp.KeyHeaderContentType, inHttp.ValueHeaderApplicationJson)
	if token != "" {
		req.Header.Set(inHttp.KeyHeaderAuthorization, "Bearer "+token)
	}
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Set(inHttp.KeyHeaderRequestID, requestID)
	}

	logger = logger.With().Str(log.KeyProcess, "sending request").Logger()
	logger.Trace().Msg("sending request")
	res, err := cl.http.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending request with error=%w: %w", inErrors.ErrTransientNetwork, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer res.Body.Close()
	logger = logger.With().Int(log.KeyResponseStatusCode, res.StatusCode).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding response").Logger()
	decoded := envelope{}
	if err = json.NewDecoder(res.Body).Decode(&decoded); err != nil && res.StatusCode < http.StatusBadRequest {
		err = fmt.Errorf("failed decoding response with error=%w: %w", inErrors.ErrTransientNetwork, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if res.StatusCode >= http.StatusBadRequest {
		err = &StatusError{StatusCode: res.StatusCode, Message: decoded.Message, class: classify(res.StatusCode)}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if out != nil && len(decoded.Data) > 0 {
		if err = json.Unmarshal(decoded.Data, out); err != nil {
			err = fmt.Errorf("failed decoding response data with error=%w: %w", inErrors.ErrTransientNetwork, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
	}
	logger.Trace().Msg("received response")

	return nil
}
