package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/help/internal/otel"
	"github.com/Alturino/grocery/help/pkg/request"
	"github.com/Alturino/grocery/help/pkg/response"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/internal/repository"
)

type HelpService struct {
	queries *repository.Queries
}

func NewHelpService(queries *repository.Queries) *HelpService {
	return &HelpService{queries: queries}
}

func (svc *HelpService) FindHelpRequests(c context.Context, userId uuid.UUID) ([]response.HelpRequest, error) {
	c, span := otel.Tracer.Start(c, "HelpService FindHelpRequests")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "HelpService FindHelpRequests").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "finding help requests").
		Logger()

	rows, err := svc.queries.FindHelpRequestsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding help requests with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	helpRequests := make([]response.HelpRequest, 0, len(rows))
	for _, row := range rows {
		helpRequests = append(helpRequests, row.Response())
	}
	logger.Info().Int("helpRequests", len(helpRequests)).Msg("found help requests")

	return helpRequests, nil
}

func (svc *HelpService) CreateHelpRequest(c context.Context, userId uuid.UUID, param request.HelpRequest) (response.HelpRequest, error) {
	c, span := otel.Tracer.Start(c, "HelpService CreateHelpRequest")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "HelpService CreateHelpRequest").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "inserting help request").
		Logger()

	helpRequest, err := svc.queries.InsertHelpRequest(c, repository.InsertHelpRequestParams{
		ID:      uuid.New(),
		UserID:  userId,
		Name:    strings.TrimSpace(param.Name),
		Email:   strings.TrimSpace(param.Email),
		Message: strings.TrimSpace(param.Message),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting help request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.HelpRequest{}, err
	}
	logger.Info().Str(log.KeyHelpRequestID, helpRequest.ID.String()).Msg("inserted help request")

	return helpRequest.Response(), nil
}

// DeleteHelpRequest reports ErrNotFound both for unknown ids and for
// requests owned by someone else.
func (svc *HelpService) DeleteHelpRequest(c context.Context, userId uuid.UUID, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "HelpService DeleteHelpRequest")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "HelpService DeleteHelpRequest").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyHelpRequestID, id.String()).
		Str(log.KeyProcess, "deleting help request").
		Logger()

	deleted, err := svc.queries.DeleteHelpRequest(c, repository.DeleteHelpRequestParams{ID: id, UserID: userId})
	if err == nil && deleted == 0 {
		err = fmt.Errorf("help request id=%s with error=%w", id, inErrors.ErrNotFound)
	}
	if err != nil {
		err = fmt.Errorf("failed deleting help request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted help request")

	return nil
}
