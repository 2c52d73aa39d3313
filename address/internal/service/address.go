package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/address/internal/otel"
	"github.com/Alturino/grocery/address/pkg/request"
	"github.com/Alturino/grocery/address/pkg/response"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/internal/repository"
)

type AddressService struct {
	queries *repository.Queries
}

func NewAddressService(queries *repository.Queries) *AddressService {
	return &AddressService{queries: queries}
}

func (svc *AddressService) FindAddresses(c context.Context, userId uuid.UUID) ([]response.Address, error) {
	c, span := otel.Tracer.Start(c, "AddressService FindAddresses")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressService FindAddresses").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "finding addresses").
		Logger()

	logger.Trace().Msg("finding addresses")
	rows, err := svc.queries.FindAddressesByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding addresses with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	addresses := make([]response.Address, 0, len(rows))
	for _, row := range rows {
		addresses = append(addresses, row.Response())
	}
	logger.Info().Int("addresses", len(addresses)).Msg("found addresses")

	return addresses, nil
}

func (svc *AddressService) CreateAddress(c context.Context, userId uuid.UUID, param request.Address) (response.Address, error) {
	c, span := otel.Tracer.Start(c, "AddressService CreateAddress")
	defer span.End()

	param = param.Normalize()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressService CreateAddress").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "inserting address").
		Logger()

	logger.Trace().Msg("inserting address")
	address, err := svc.queries.InsertAddress(c, repository.InsertAddressParams{
		ID:         uuid.New(),
		UserID:     userId,
		Label:      param.Label,
		FullName:   param.FullName,
		Phone:      param.Phone,
		Street:     param.Street,
		City:       param.City,
		State:      param.State,
		PostalCode: param.PostalCode,
		Country:    param.Country,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting address with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Address{}, err
	}
	logger.Info().Str(log.KeyAddressID, address.ID.String()).Msg("inserted address")

	return address.Response(), nil
}

func (svc *AddressService) UpdateAddress(
	c context.Context,
	userId uuid.UUID,
	addressId uuid.UUID,
	param request.Address,
) (response.Address, error) {
	c, span := otel.Tracer.Start(c, "AddressService UpdateAddress")
	defer span.End()

	param = param.Normalize()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressService UpdateAddress").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyAddressID, addressId.String()).
		Str(log.KeyProcess, "updating address").
		Logger()

	logger.Trace().Msg("updating address")
	address, err := svc.queries.UpdateAddress(c, repository.UpdateAddressParams{
		ID:         addressId,
		UserID:     userId,
		Label:      param.Label,
		FullName:   param.FullName,
		Phone:      param.Phone,
		Street:     param.Street,
		City:       param.City,
		State:      param.State,
		PostalCode: param.PostalCode,
		Country:    param.Country,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("address id=%s with error=%w", addressId, inErrors.ErrNotFound)
		} else {
			err = fmt.Errorf("failed updating address with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Address{}, err
	}
	logger.Info().Msg("updated address")

	return address.Response(), nil
}

// DeleteAddress only removes addresses owned by userId. Orders keep the
// address id they were placed with.
func (svc *AddressService) DeleteAddress(c context.Context, userId uuid.UUID, addressId uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "AddressService DeleteAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressService DeleteAddress").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyAddressID, addressId.String()).
		Str(log.KeyProcess, "deleting address").
		Logger()

	logger.Trace().Msg("deleting address")
	deleted, err := svc.queries.DeleteAddress(c, repository.DeleteAddressParams{ID: addressId, UserID: userId})
	if err == nil && deleted == 0 {
		err = fmt.Errorf("address id=%s with error=%w", addressId, inErrors.ErrNotFound)
	}
	if err != nil {
		err = fmt.Errorf("failed deleting address with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted address")

	return nil
}
