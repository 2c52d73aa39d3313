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
	"github.com/Alturino/grocery/notification/internal/otel"
	"github.com/Alturino/grocery/notification/internal/service"
)

type NotificationController struct {
	service *service.NotificationService
}

func AttachNotificationController(mux *mux.Router, service *service.NotificationService) {
	controller := NotificationController{service: service}

	router := mux.PathPrefix("/notifications").Subrouter()
	router.HandleFunc("/{userId}", controller.FindNotifications).Methods(http.MethodGet)
	router.HandleFunc("/{userId}", controller.Clear).Methods(http.MethodDelete)
}

func (ctrl NotificationController) FindNotifications(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController FindNotifications")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationController FindNotifications").
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

	logger = logger.With().Str(log.KeyProcess, "finding notifications").Str(log.KeyUserID, userId.String()).Logger()
	notifications, err := ctrl.service.FindNotifications(logger.WithContext(c), userId)
	if err != nil {
		err = fmt.Errorf("failed finding notifications with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "successfully found notifications",
		"data":       notifications,
	})
}

func (ctrl NotificationController) Clear(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationController Clear").
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

	logger = logger.With().Str(log.KeyProcess, "clearing notifications").Str(log.KeyUserID, userId.String()).Logger()
	if err = ctrl.service.Clear(logger.WithContext(c), userId); err != nil {
		err = fmt.Errorf("failed clearing notifications with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "notifications cleared",
	})
}
