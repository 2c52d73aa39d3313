package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/grocery/internal/errors"
)

func TestVerifyToken(t *testing.T) {
	userId := uuid.New()
	tests := []struct {
		name        string
		signWith    string
		verifyWith  string
		expectedErr error
	}{
		{
			name:        "given token signed with same secret should return subject",
			signWith:    "secret",
			verifyWith:  "secret",
			expectedErr: nil,
		},
		{
			name:        "given token signed with other secret should return invalid token",
			signWith:    "secret",
			verifyWith:  "other",
			expectedErr: errors.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := context.Background()
			token, err := NewToken(c, userId, "user@grocery.test", tt.signWith)
			require.NoError(t, err)

			jwtToken, err := VerifyToken(c, token, tt.verifyWith)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)

			actual, err := UserIdFromJwtToken(AttachJwtToken(c, jwtToken))
			require.NoError(t, err)
			assert.Equal(t, userId, actual)
		})
	}
}

func TestEnsureOwner(t *testing.T) {
	userId := uuid.New()
	token, err := NewToken(context.Background(), userId, "user@grocery.test", "secret")
	require.NoError(t, err)
	jwtToken, err := VerifyToken(context.Background(), token, "secret")
	require.NoError(t, err)
	c := AttachJwtToken(context.Background(), jwtToken)

	assert.NoError(t, EnsureOwner(c, userId))
	assert.ErrorIs(t, EnsureOwner(c, uuid.New()), errors.ErrForbidden)
	assert.ErrorIs(t, EnsureOwner(context.Background(), userId), errors.ErrUnauthenticated)
}

func TestComparePassword(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hashed, "hunter22"))
	assert.ErrorIs(t, ComparePassword(hashed, "hunter23"), errors.ErrPasswordMismatch)
}
