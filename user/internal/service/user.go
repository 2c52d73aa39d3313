package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/internal/auth"
	"github.com/Alturino/grocery/internal/config"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/internal/repository"
	"github.com/Alturino/grocery/user/internal/otel"
	"github.com/Alturino/grocery/user/pkg/request"
	"github.com/Alturino/grocery/user/pkg/response"
)

type UserService struct {
	queries *repository.Queries
	config  config.Application
}

func NewUserService(queries *repository.Queries, config config.Application) *UserService {
	return &UserService{queries: queries, config: config}
}

// Login never tells an unknown email apart from a wrong password.
func (svc *UserService) Login(c context.Context, param request.Login) (response.Auth, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(param.Email))
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding user").Logger()
	logger.Trace().Msg("finding user by email")
	user, err := svc.queries.FindUserByEmail(c, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("user email=%s not found with error=%w", email, inErrors.ErrPasswordMismatch)
		} else {
			err = fmt.Errorf("failed finding user with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger = logger.With().Str(log.KeyUserID, user.ID.String()).Logger()
	logger.Trace().Msg("found user by email")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Trace().Msg("verifying password")
	if err = auth.ComparePassword(user.Password, param.Password); err != nil {
		err = fmt.Errorf("failed verifying password with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Trace().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "creating token").Logger()
	token, err := auth.NewToken(logger.WithContext(c), user.ID, user.Email, svc.config.SecretKey)
	if err != nil {
		err = fmt.Errorf("failed creating token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("logged in")

	return response.Auth{Token: token, User: user.Response()}, nil
}

func (svc *UserService) Signup(c context.Context, param request.Signup) (response.Auth, error) {
	c, span := otel.Tracer.Start(c, "UserService Signup")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(param.Email))
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Signup").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Trace().Msg("hashing password")
	hashed, err := auth.HashPassword(param.Password)
	if err != nil {
		err = fmt.Errorf("%w: %w", inErrors.ErrFailedHashToken, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Trace().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "inserting user").Logger()
	logger.Trace().Msg("inserting user")
	user, err := svc.queries.InsertUser(c, repository.InsertUserParams{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(param.Name),
		Email:    email,
		Password: hashed,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			err = fmt.Errorf("email=%s with error=%w", email, inErrors.ErrEmailRegistered)
		} else {
			err = fmt.Errorf("failed inserting user with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger = logger.With().Str(log.KeyUserID, user.ID.String()).Logger()
	logger.Info().Msg("inserted user")

	token, err := auth.NewToken(logger.WithContext(c), user.ID, user.Email, svc.config.SecretKey)
	if err != nil {
		err = fmt.Errorf("failed creating token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}

	return response.Auth{Token: token, User: user.Response()}, nil
}
