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
	"github.com/Alturino/grocery/wishlist/internal/otel"
	"github.com/Alturino/grocery/wishlist/internal/service"
	"github.com/Alturino/grocery/wishlist/pkg/request"
)

type WishlistController struct {
	service *service.WishlistService
}

func AttachWishlistController(mux *mux.Router, service *service.WishlistService) {
	controller := WishlistController{service: service}

	router := mux.PathPrefix("/wishlist").Subrouter()
	router.HandleFunc("/add", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/remove/{userId}/{productId}", controller.RemoveItem).Methods(http.MethodDelete)
	router.HandleFunc("/clear/{userId}", controller.Clear).Methods(http.MethodDelete)
	router.HandleFunc("/{userId}", controller.FindWishlist).Methods(http.MethodGet)
}

func (ctrl WishlistController) FindWishlist(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WishlistController FindWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistController FindWishlist").
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

	logger = logger.With().Str(log.KeyProcess, "finding wishlist").Str(log.KeyUserID, userId.String()).Logger()
	items, err := ctrl.service.FindWishlist(logger.WithContext(c), userId)
	if err != nil {
		err = fmt.Errorf("failed finding wishlist with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "successfully found wishlist",
		"data":       items,
	})
}

func (ctrl WishlistController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WishlistController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistController AddItem").
		Str(log.KeyProcess, "decoding request body").
		Logger()

	reqBody := request.AddWishlistItem{}
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

	logger = logger.With().
		Str(log.KeyProcess, "adding wishlist item").
		Str(log.KeyUserID, reqBody.UserID.String()).
		Int64(log.KeyProductID, reqBody.ProductID).
		Logger()
	item, err := ctrl.service.AddItem(logger.WithContext(c), reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding wishlist item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("added wishlist item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "added to wishlist",
		"data":       item,
	})
}

func (ctrl WishlistController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WishlistController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistController RemoveItem").
		Str(log.KeyProcess, "parsing path").
		Logger()

	var productId int64
	userId, err := inHttp.PathUUID(r, "userId")
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

	logger = logger.With().
		Str(log.KeyProcess, "removing wishlist item").
		Str(log.KeyUserID, userId.String()).
		Int64(log.KeyProductID, productId).
		Logger()
	if err = ctrl.service.RemoveItem(logger.WithContext(c), userId, productId); err != nil {
		err = fmt.Errorf("failed removing wishlist item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "removed from wishlist",
	})
}

func (ctrl WishlistController) Clear(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WishlistController Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistController Clear").
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

	logger = logger.With().Str(log.KeyProcess, "clearing wishlist").Str(log.KeyUserID, userId.String()).Logger()
	if err = ctrl.service.Clear(logger.WithContext(c), userId); err != nil {
		err = fmt.Errorf("failed clearing wishlist with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "wishlist cleared",
	})
}
