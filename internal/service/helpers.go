package service

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/pkg/security"
	"airicepest-be/internal/pkg/timeutil"

	"github.com/google/uuid"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func clockOrNow(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	Id       uuid.UUID
	Username string
	Role     entity.UserRole
}

func ActorFromClaims(c *security.Claims) *Actor {
	if c == nil {
		return nil
	}
	return &Actor{Id: c.UserId, Username: c.Username, Role: c.Role}
}

const minUsernameLength = 3

var (
	errUsernameTaken    = apperror.Conflict("Username already exists")
	errUsernameTooShort = apperror.Validation("Username must be at least 3 characters")
	errPasswordTooShort = apperror.Validation("Password must be at least 8 characters")
	errUserNotFound     = apperror.NotFound("User not found")
)

// userWriteError maps a failed user Update onto the API taxonomy.
func userWriteError(err error) error {
	switch {
	case errors.Is(err, contract.ErrDuplicate):
		return errUsernameTaken
	case errors.Is(err, contract.ErrNotFound):
		return errUserNotFound
	default:
		return apperror.Internal(err)
	}
}

// pagination turns a 1-based page and a limit into limit/offset.
func pagination(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return limit, (page - 1) * limit
}

func validateUsername(username string) error {
	if utf8.RuneCountInString(username) < minUsernameLength {
		return errUsernameTooShort
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < security.MinPasswordLength {
		return errPasswordTooShort
	}
	return nil
}

func defaultEmail(email, username string) string {
	if email = strings.TrimSpace(email); email != "" {
		return email
	}
	return username + "@example.com"
}

func toUserSummary(u *entity.User) dto.UserSummary {
	return dto.UserSummary{
		Id:       u.Id.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

func toUserResponse(u *entity.User, loc *time.Location) dto.UserResponse {
	return dto.UserResponse{
		Id:               u.Id.String(),
		Username:         u.Username,
		Email:            u.Email,
		Role:             string(u.Role),
		Status:           string(u.Status()),
		IsActive:         u.IsActive,
		RecognitionCount: u.RecognitionCount,
		CreatedAt:        timeutil.Format(u.CreatedAt, loc),
		LastLogin:        timeutil.FormatPtr(u.LastLogin, loc),
	}
}
