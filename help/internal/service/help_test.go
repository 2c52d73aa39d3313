package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/grocery/help/pkg/request"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/repository"
	"github.com/Alturino/grocery/internal/testutil"
)

func TestHelpService(t *testing.T) {
	c := testutil.Context(t)
	pool := testutil.StartPostgres(t, c)
	queries := repository.New(pool)
	svc := NewHelpService(queries)

	owner := testutil.SeedUser(t, c, queries)
	stranger := testutil.SeedUser(t, c, queries)

	created, err := svc.CreateHelpRequest(c, owner.ID, request.HelpRequest{
		Name:    "Asha",
		Email:   "asha@grocery.test",
		Message: " My order arrived without the milk ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Open", created.Status)
	assert.Equal(t, "My order arrived without the milk", created.Message)

	own, err := svc.FindHelpRequests(c, owner.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)

	others, err := svc.FindHelpRequests(c, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, others)

	tests := []struct {
		name        string
		userId      uuid.UUID
		id          uuid.UUID
		expectedErr error
	}{
		{name: "given other user should return not found", userId: stranger.ID, id: created.ID, expectedErr: inErrors.ErrNotFound},
		{name: "given unknown id should return not found", userId: owner.ID, id: uuid.New(), expectedErr: inErrors.ErrNotFound},
		{name: "given owner should delete", userId: owner.ID, id: created.ID},
		{name: "given already deleted should return not found", userId: owner.ID, id: created.ID, expectedErr: inErrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.DeleteHelpRequest(c, tt.userId, tt.id)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
