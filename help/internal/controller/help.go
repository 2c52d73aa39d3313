package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/help/internal/otel"
	"github.com/Alturino/grocery/help/internal/service"
	"github.com/Alturino/grocery/help/pkg/request"
	"github.com/Alturino/grocery/internal/auth"
	"github.com/Alturino/grocery/internal/constants"
	inHttp "github.com/Alturino/grocery/internal/http"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
)

type HelpController struct {
	service *service.HelpService
}

// AttachHelpController serves the authenticated user's own help requests.
func AttachHelpController(mux *mux.Router, service *service.HelpService) {
	controller := HelpController{service: service}

	router := mux.PathPrefix("/help-request").Subrouter()
	router.HandleFunc("", controller.FindHelpRequests).Methods(http.MethodGet)
	router.HandleFunc("", controller.CreateHelpRequest).Methods(http.MethodPost)
	router.HandleFunc("/{id}", controller.DeleteHelpRequest).Methods(http.MethodDelete)
}

func (ctrl HelpController) FindHelpRequests(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "HelpController FindHelpRequests")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "HelpController FindHelpRequests").
		Str(log.KeyProcess, "getting userId").
		Logger()

	userId, err := auth.UserIdFromJwtToken(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "finding help requests").Str(log.KeyUserID, userId.String()).Logger()
	helpRequests, err := ctrl.service.FindHelpRequests(logger.WithContext(c), userId)
	if err != nil {
		err = fmt.Errorf("failed finding help requests with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "successfully found help requests",
		"data":       helpRequests,
	})
}

func (ctrl HelpController) CreateHelpRequest(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "HelpController CreateHelpRequest")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "HelpController CreateHelpRequest").
		Str(log.KeyProcess, "decoding request body").
		Logger()

	reqBody := request.HelpRequest{}
	userId, err := auth.UserIdFromJwtToken(c)
	if err == nil {
		err = inHttp.DecodeJsonBody(c, r, &reqBody)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "creating help request").Str(log.KeyUserID, userId.String()).Logger()
	helpRequest, err := ctrl.service.CreateHelpRequest(logger.WithContext(c), userId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating help request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyHelpRequestID, helpRequest.ID.String()).Msg("created help request")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusCreated,
		"message":    "request submitted successfully",
		"data":       helpRequest,
	})
}

func (ctrl HelpController) DeleteHelpRequest(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "HelpController DeleteHelpRequest")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "HelpController DeleteHelpRequest").
		Str(log.KeyProcess, "parsing id").
		Logger()

	id, err := inHttp.PathUUID(r, "id")
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
		Str(log.KeyProcess, "deleting help request").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyHelpRequestID, id.String()).
		Logger()
	if err = ctrl.service.DeleteHelpRequest(logger.WithContext(c), userId, id); err != nil {
		err = fmt.Errorf("failed deleting help request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     constants.StatusSuccess,
		"statusCode": http.StatusOK,
		"message":    "request deleted successfully",
	})
}
