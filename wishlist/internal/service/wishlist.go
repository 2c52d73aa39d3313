package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/internal/repository"
	"github.com/Alturino/grocery/wishlist/internal/otel"
	"github.com/Alturino/grocery/wishlist/pkg/request"
	"github.com/Alturino/grocery/wishlist/pkg/response"
)

type WishlistService struct {
	queries *repository.Queries
}

func NewWishlistService(queries *repository.Queries) *WishlistService {
	return &WishlistService{queries: queries}
}

func (svc *WishlistService) FindWishlist(c context.Context, userId uuid.UUID) ([]response.WishlistItem, error) {
	c, span := otel.Tracer.Start(c, "WishlistService FindWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService FindWishlist").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "finding wishlist").
		Logger()

	logger.Trace().Msg("finding wishlist")
	rows, err := svc.queries.FindWishlistByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding wishlist with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	items := make([]response.WishlistItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Response())
	}
	logger.Info().Int("items", len(items)).Msg("found wishlist")

	return items, nil
}

// AddItem fails with ErrAlreadyExists when the product is already on the
// user's wishlist.
func (svc *WishlistService) AddItem(c context.Context, param request.AddWishlistItem) (response.WishlistItem, error) {
	c, span := otel.Tracer.Start(c, "WishlistService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService AddItem").
		Str(log.KeyUserID, param.UserID.String()).
		Int64(log.KeyProductID, param.ProductID).
		Str(log.KeyProcess, "inserting wishlist item").
		Logger()

	logger.Trace().Msg("inserting wishlist item")
	item, err := svc.queries.InsertWishlistItem(c, repository.InsertWishlistItemParams{
		ID:        uuid.New(),
		UserID:    param.UserID,
		ProductID: param.ProductID,
		Title:     param.Title,
		Image:     param.Image,
		Price:     repository.NumericFromDecimal(param.Price),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("productId=%d already wishlisted with error=%w", param.ProductID, inErrors.ErrAlreadyExists)
		} else {
			err = fmt.Errorf("failed inserting wishlist item with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.WishlistItem{}, err
	}
	logger.Info().Msg("inserted wishlist item")

	return item.Response(), nil
}

func (svc *WishlistService) RemoveItem(c context.Context, userId uuid.UUID, productId int64) error {
	c, span := otel.Tracer.Start(c, "WishlistService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService RemoveItem").
		Str(log.KeyUserID, userId.String()).
		Int64(log.KeyProductID, productId).
		Str(log.KeyProcess, "deleting wishlist item").
		Logger()

	deleted, err := svc.queries.DeleteWishlistItem(c, repository.DeleteWishlistItemParams{
		UserID:    userId,
		ProductID: productId,
	})
	if err != nil {
		err = fmt.Errorf("failed deleting wishlist item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int64("deleted", deleted).Msg("deleted wishlist item")

	return nil
}

func (svc *WishlistService) Clear(c context.Context, userId uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "WishlistService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService Clear").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "deleting wishlist").
		Logger()

	deleted, err := svc.queries.DeleteWishlistByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed clearing wishlist with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int64("deleted", deleted).Msg("cleared wishlist")

	return nil
}
