package service

import (
	"context"
	"strings"
	"time"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProfileService interface {
	GetProfile(ctx context.Context, userId uuid.UUID, loc *time.Location) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest, loc *time.Location) (*dto.UserResponse, error)
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewProfileService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IProfileService {
	return &profileService{uowFactory: uowFactory, logger: log}
}

func (s *profileService) GetProfile(ctx context.Context, userId uuid.UUID, loc *time.Location) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, errUserNotFound
	}

	res := toUserResponse(user, loc)
	return &res, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest, loc *time.Location) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()
	user, err := users.FindById(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, errUserNotFound
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		existing, err := users.FindByUsername(ctx, username)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if existing != nil && existing.Id != user.Id {
			return nil, errUsernameTaken
		}
		user.Username = username
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			return nil, apperror.Validation("Email must be a valid email address")
		}
		user.Email = email
	}

	if err := users.Update(ctx, user); err != nil {
		return nil, userWriteError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("PROFILE", "Profile updated", map[string]interface{}{"user_id": user.Id})
	res := toUserResponse(user, loc)
	return &res, nil
}
