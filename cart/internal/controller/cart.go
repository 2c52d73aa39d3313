package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/cart/internal/otel"
	"github.com/Alturino/grocery/cart/internal/service"
	"github.com/Alturino/grocery/cart/pkg/request"
	"github.com/Alturino/grocery/internal/auth"
	"github.com/Alturino/grocery/internal/constants"
	inHttp "github.com/Alturino/grocery/internal/http"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
)

type CartController struct {
	service *service.CartService
}

func AttachCartController(mux *mux.Router, service *service.CartService) {
	controller := CartController{service: service}

	router := mux.PathPrefix("/cart").Subrouter()
	router.HandleFunc("/add", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/update", controller.UpdateQuantity).Methods(http.MethodPut)
	router.HandleFunc("/remove/{userId}/{productId}", controller.RemoveItem).Methods(http.MethodDelete)
	router.HandleFunc("/clear/{userId}", controller.Clear).Methods(http.MethodDelete)
	router.HandleFunc("/{userId}", controller.FindCart).Methods(http.MethodGet)
}

func (ctrl CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController FindCart").
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

	logger = logger.With().Str(log.KeyProcess, "finding cart").Str(log.KeyUserID, userId.String()).Logger()
	logger.Info().Msg("finding cart")
	cart, err := ctrl.service.FindCart(logger.WithContext(c), userId)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "successfully found cart",
		"data":       cart,
	})
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Str(log.KeyProcess, "decoding request body").
		Logger()

	logger.Trace().Msg("decoding request body")
	reqBody := request.AddCartItem{}
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

	logger = logger.With().Str(log.KeyProcess, "adding cart item").Logger()
	logger.Info().Msg("adding cart item")
	item, err := ctrl.service.AddItem(logger.WithContext(c), reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("added cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "item added to cart",
		"data":       item,
	})
}

func (ctrl CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateQuantity").
		Str(log.KeyProcess, "decoding request body").
		Logger()

	reqBody := request.UpdateCartItem{}
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

	logger = logger.With().Str(log.KeyProcess, "updating cart item quantity").Logger()
	logger.Info().Msg("updating cart item quantity")
	item, err := ctrl.service.UpdateQuantity(logger.WithContext(c), reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating cart item quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("updated cart item quantity")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "quantity updated",
		"data":       item,
	})
}

func (ctrl CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Str(log.KeyProcess, "parsing path values").
		Logger()

	userId, err := inHttp.PathUUID(r, "userId")
	var productId int64
	if err == nil {
		productId, err = inHttp.PathInt64(r, "productId")
	}
	if err == nil {
		err = auth.EnsureOwner(c, userId)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "removing cart item").Logger()
	logger.Info().Msg("removing cart item")
	if err = ctrl.service.RemoveItem(logger.WithContext(c), userId, productId); err != nil {
		err = fmt.Errorf("failed removing cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("removed cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "item removed from cart",
	})
}

func (ctrl CartController) Clear(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController Clear").
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

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	if err = ctrl.service.Clear(logger.WithContext(c), userId); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "cart cleared",
	})
}
