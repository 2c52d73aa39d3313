package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/grocery/internal/auth"
	inHttp "github.com/Alturino/grocery/internal/http"
	"github.com/Alturino/grocery/internal/middleware"
)

const secretKey = "cart-controller-test"

// The requests below are all rejected before the service is reached, so no
// service is wired.
func TestCartControllerRejectsBeforeService(t *testing.T) {
	userId := uuid.New()
	token, err := auth.NewToken(context.Background(), userId, "owner@grocery.test", secretKey)
	require.NoError(t, err)

	router := mux.NewRouter()
	router.Use(middleware.Auth(secretKey))
	AttachCartController(router, nil)
	server := httptest.NewServer(router)
	defer server.Close()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		statusCode int
	}{
		{
			name:       "given no token should return 401",
			method:     http.MethodGet,
			path:       "/cart/" + userId.String(),
			statusCode: http.StatusUnauthorized,
		},
		{
			name:       "given token of another user should return 403",
			method:     http.MethodGet,
			path:       "/cart/" + uuid.NewString(),
			token:      token,
			statusCode: http.StatusForbidden,
		},
		{
			name:       "given malformed userId should return 400",
			method:     http.MethodDelete,
			path:       "/cart/clear/not-a-uuid",
			token:      token,
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "given non positive productId should return 400",
			method:     http.MethodDelete,
			path:       "/cart/remove/" + userId.String() + "/0",
			token:      token,
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "given add without title should return 400",
			method:     http.MethodPost,
			path:       "/cart/add",
			body:       `{"userId":"` + userId.String() + `","productId":1,"price":"10"}`,
			token:      token,
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "given add with sub cent price should return 400",
			method:     http.MethodPost,
			path:       "/cart/add",
			body:       `{"userId":"` + userId.String() + `","productId":1,"title":"Tea","price":"0.333","quantity":3}`,
			token:      token,
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "given update for another user should return 403",
			method:     http.MethodPut,
			path:       "/cart/update",
			body:       `{"userId":"` + uuid.NewString() + `","productId":1,"quantity":2}`,
			token:      token,
			statusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			if tt.token != "" {
				req.Header.Set(inHttp.KeyHeaderAuthorization, "Bearer "+tt.token)
			}

			res, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tt.statusCode, res.StatusCode)
			body := map[string]interface{}{}
			require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
			assert.Equal(t, "failed", body["status"])
			assert.EqualValues(t, tt.statusCode, body["statusCode"])
		})
	}
}
