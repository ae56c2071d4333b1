// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/security"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/unitofwork"
	"airicepest-be/pkg/events"

	"github.com/google/uuid"
)

var (
	errCredentialsRequired = apperror.Validation("Username and password are required")
	errInvalidCredentials  = apperror.Auth("Invalid username or password")
	errAccountDisabled     = apperror.Forbidden("Account is disabled")
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserSummary, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *security.TokenService
	events     IEventPublisher
	logger     logger.ILogger
	now        Clock
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *security.TokenService,
	eventPublisher IEventPublisher,
	log logger.ILogger,
	now Clock,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		tokens:     tokens,
		events:     eventPublisher,
		logger:     log,
		now:        clockOrNow(now),
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserSummary, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, errCredentialsRequired
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Advisory only; the unique index decides concurrent registrations.
	existing, err := uow.UserRepository().FindByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, errUsernameTaken
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &entity.User{
		Id:           uuid.New(),
		Username:     username,
		Email:        defaultEmail(req.Email, username),
		PasswordHash: &hash,
		Role:         entity.UserRoleUser,
		IsActive:     true,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, errUsernameTaken
		}
		return nil, apperror.Internal(err)
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id, "username": user.Username})
	s.events.Publish(ctx, events.New(events.UserRegistered, s.now(), map[string]interface{}{
		"id":       user.Id.String(),
		"username": user.Username,
	}))

	summary := toUserSummary(user)
	return &summary, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, errCredentialsRequired
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users := uow.UserRepository()

	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if user.HasPassword() && !security.CheckPassword(req.Password, *user.PasswordHash) {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, errAccountDisabled
	}
	if !user.HasPassword() {
		if err := s.migrateLegacyPassword(ctx, users, user, req.Password); err != nil {
			return nil, err
		}
	}

	now := s.now()
	if err := users.UpdateLastLogin(ctx, user.Id, now); err != nil {
		return nil, apperror.Internal(err)
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(user.Id, user.Username, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.events.Publish(ctx, events.New(events.UserLogin, now, map[string]interface{}{
		"id":       user.Id.String(),
		"username": user.Username,
		"role":     string(user.Role),
	}))

	return &dto.LoginResponse{Token: token, User: toUserSummary(user)}, nil
}

// migrateLegacyPassword adopts the supplied password for accounts imported
// without a hash. It only runs when no hash is stored.
func (s *authService) migrateLegacyPassword(ctx context.Context, users contract.UserRepository, user *entity.User, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return apperror.Internal(err)
	}
	user.PasswordHash = &hash
	if err := users.Update(ctx, user); err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return errInvalidCredentials
		}
		return apperror.Internal(err)
	}
	s.logger.Warn("AUTH", "Migrated legacy account without password hash", map[string]interface{}{"user_id": user.Id, "username": user.Username})
	return nil
}
