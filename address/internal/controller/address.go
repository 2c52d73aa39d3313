package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/address/internal/otel"
	"github.com/Alturino/grocery/address/internal/service"
	"github.com/Alturino/grocery/address/pkg/request"
	"github.com/Alturino/grocery/internal/auth"
	"github.com/Alturino/grocery/internal/constants"
	inHttp "github.com/Alturino/grocery/internal/http"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
)

type AddressController struct {
	service *service.AddressService
}

func AttachAddressController(mux *mux.Router, service *service.AddressService) {
	controller := AddressController{service: service}

	router := mux.PathPrefix("/addresses").Subrouter()
	router.HandleFunc("/user/{userId}", controller.FindAddresses).Methods(http.MethodGet)
	router.HandleFunc("/{userId}", controller.CreateAddress).Methods(http.MethodPost)
	router.HandleFunc("/{id}", controller.UpdateAddress).Methods(http.MethodPut)
	router.HandleFunc("/{id}", controller.DeleteAddress).Methods(http.MethodDelete)
}

func (ctrl AddressController) FindAddresses(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AddressController FindAddresses")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressController FindAddresses").
		Str(log.KeyProcess, "parsing userId").
		Logger()

	userId, err := inHttp.PathUUID(r, "userId")
	if err == nil {
		err = auth.EnsureOwner(c, userId)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "finding addresses").Str(log.KeyUserID, userId.String()).Logger()
	addresses, err := ctrl.service.FindAddresses(logger.WithContext(c), userId)
	if err != nil {
		err = fmt.Errorf("failed finding addresses with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "successfully found addresses",
		"data":       addresses,
	})
}

func (ctrl AddressController) CreateAddress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AddressController CreateAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressController CreateAddress").
		Str(log.KeyProcess, "decoding request").
		Logger()

	reqBody := request.Address{}
	userId, err := inHttp.PathUUID(r, "userId")
	if err == nil {
		err = auth.EnsureOwner(c, userId)
	}
	if err == nil {
		err = inHttp.DecodeJsonBody(c, r, &reqBody)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "creating address").Str(log.KeyUserID, userId.String()).Logger()
	logger.Info().Msg("creating address")
	address, err := ctrl.service.CreateAddress(logger.WithContext(c), userId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating address with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyAddressID, address.ID.String()).Msg("created address")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusCreated,
		"message":    "address created",
		"data":       address,
	})
}

func (ctrl AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AddressController UpdateAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressController UpdateAddress").
		Str(log.KeyProcess, "decoding request").
		Logger()

	reqBody := request.Address{}
	addressId, err := inHttp.PathUUID(r, "id")
	if err == nil {
		err = inHttp.DecodeJsonBody(c, r, &reqBody)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	userId, err := auth.UserIdFromJwtToken(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(log.KeyProcess, "updating address").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyAddressID, addressId.String()).
		Logger()
	logger.Info().Msg("updating address")
	address, err := ctrl.service.UpdateAddress(logger.WithContext(c), userId, addressId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating address with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("updated address")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "address updated",
		"data":       address,
	})
}

func (ctrl AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AddressController DeleteAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressController DeleteAddress").
		Str(log.KeyProcess, "parsing id").
		Logger()

	addressId, err := inHttp.PathUUID(r, "id")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	userId, err := auth.UserIdFromJwtToken(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(log.KeyProcess, "deleting address").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyAddressID, addressId.String()).
		Logger()
	if err = ctrl.service.DeleteAddress(logger.WithContext(c), userId, addressId); err != nil {
		err = fmt.Errorf("failed deleting address with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("deleted address")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "address deleted",
	})
}
