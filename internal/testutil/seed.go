package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/grocery/internal/repository"
)

func SeedUser(t *testing.T, c context.Context, queries *repository.Queries) repository.User {
	t.Helper()
	id := uuid.New()
	user, err := queries.InsertUser(c, repository.InsertUserParams{
		ID:       id,
		Name:     "Test User",
		Email:    fmt.Sprintf("%s@grocery.test", id.String()),
		Password: "$2a$10$abcdefghijklmnopqrstuv",
	})
	if err != nil {
		t.Fatalf("failed seeding user with error: %s", err)
	}
	return user
}

func SeedAddress(t *testing.T, c context.Context, queries *repository.Queries, userId uuid.UUID) repository.Address {
	t.Helper()
	address, err := queries.InsertAddress(c, repository.InsertAddressParams{
		ID:         uuid.New(),
		UserID:     userId,
		Label:      "Home",
		FullName:   "Test User",
		Street:     "1 Market Street",
		City:       "Pune",
		PostalCode: "411001",
		Country:    "India",
	})
	if err != nil {
		t.Fatalf("failed seeding address with error: %s", err)
	}
	return address
}

func SeedCartItem(
	t *testing.T,
	c context.Context,
	queries *repository.Queries,
	userId uuid.UUID,
	productId int64,
	title string,
	price string,
	quantity int32,
) repository.CartItem {
	t.Helper()
	item, err := queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		UserID:    userId,
		ProductID: productId,
		Title:     title,
		Price:     repository.NumericFromDecimal(decimal.RequireFromString(price)),
		Quantity:  quantity,
	})
	if err != nil {
		t.Fatalf("failed seeding cart item with error: %s", err)
	}
	return item
}
