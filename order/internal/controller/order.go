package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/internal/auth"
	"github.com/Alturino/grocery/internal/constants"
	inHttp "github.com/Alturino/grocery/internal/http"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/order/internal/otel"
	"github.com/Alturino/grocery/order/internal/service"
	"github.com/Alturino/grocery/order/pkg/request"
)

type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(mux *mux.Router, service *service.OrderService) {
	controller := OrderController{service: service}

	router := mux.PathPrefix("/orders").Subrouter()
	router.HandleFunc("/create", controller.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/my/{userId}", controller.FindOrders).Methods(http.MethodGet)
}

func (ctrl OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController CreateOrder").
		Str(log.KeyProcess, "decoding request body").
		Logger()

	logger.Trace().Msg("decoding request body")
	reqBody := request.CreateOrder{}
	err := inHttp.DecodeJsonBody(c, r, &reqBody)
	if err == nil {
		err = auth.EnsureOwner(c, reqBody.UserID)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().
		Str(log.KeyProcess, "creating order").
		Str(log.KeyUserID, reqBody.UserID.String()).
		Logger()
	logger.Info().Msg("creating order")
	order, err := ctrl.service.CreateOrder(logger.WithContext(c), reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyOrderID, order.ID.String()).Msg("created order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusCreated,
		"message":    "order placed successfully",
		"data":       order,
	})
}

func (ctrl OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrders").
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

	logger = logger.With().Str(log.KeyProcess, "finding orders").Str(log.KeyUserID, userId.String()).Logger()
	logger.Info().Msg("finding orders")
	orders, err := ctrl.service.FindOrdersByUserId(logger.WithContext(c), userId)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("found orders")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "successfully found orders",
		"data":       orders,
	})
}
