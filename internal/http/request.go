package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/validate"
)

// DecodeJsonBody decodes and validates the request body into dst. Every
// failure wraps ErrValidation.
func DecodeJsonBody(c context.Context, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed decoding request body %s with error=%w", err.Error(), errors.ErrValidation)
	}
	if err := validate.New().StructCtx(c, dst); err != nil {
		return fmt.Errorf("failed validating request body %s with error=%w", err.Error(), errors.ErrValidation)
	}
	return nil
}

func PathUUID(r *http.Request, key string) (uuid.UUID, error) {
	value := mux.Vars(r)[key]
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing %s=%s with error=%w", key, value, errors.ErrValidation)
	}
	return id, nil
}

func PathInt64(r *http.Request, key string) (int64, error) {
	value := mux.Vars(r)[key]
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("failed parsing %s=%s with error=%w", key, value, errors.ErrValidation)
	}
	return id, nil
}
