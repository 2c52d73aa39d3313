package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/grocery/internal/auth"
	"github.com/Alturino/grocery/internal/config"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/repository"
	"github.com/Alturino/grocery/internal/testutil"
	"github.com/Alturino/grocery/user/pkg/request"
)

func TestUserService(t *testing.T) {
	c := testutil.Context(t)
	pool := testutil.StartPostgres(t, c)
	queries := repository.New(pool)
	secretKey := "user-service-test"
	svc := NewUserService(queries, config.Application{SecretKey: secretKey})

	signup, err := svc.Signup(c, request.Signup{Name: "Asha", Email: "Asha@Grocery.Test", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "asha@grocery.test", signup.User.Email)

	token, err := auth.VerifyToken(c, signup.Token, secretKey)
	require.NoError(t, err)
	subject, err := auth.UserIdFromJwtToken(auth.AttachJwtToken(c, token))
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, subject)

	tests := []struct {
		name        string
		login       request.Login
		expectedErr error
	}{
		{
			name:  "given correct password and mixed case email should log in",
			login: request.Login{Email: " ASHA@grocery.test", Password: "secret1"},
		},
		{
			name:        "given wrong password should return password mismatch",
			login:       request.Login{Email: "asha@grocery.test", Password: "secret2"},
			expectedErr: inErrors.ErrPasswordMismatch,
		},
		{
			name:        "given unknown email should return password mismatch",
			login:       request.Login{Email: "nobody@grocery.test", Password: "secret1"},
			expectedErr: inErrors.ErrPasswordMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := svc.Login(c, tt.login)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, signup.User.ID, actual.User.ID)
			assert.NotEmpty(t, actual.Token)
		})
	}

	t.Run("given registered email should return email registered", func(t *testing.T) {
		_, err := svc.Signup(c, request.Signup{Name: "Asha", Email: "asha@grocery.test", Password: "secret1"})
		assert.ErrorIs(t, err, inErrors.ErrEmailRegistered)
	})
}
