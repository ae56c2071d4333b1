package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/security"
	"airicepest-be/internal/pkg/timeutil"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	adminDefaultLimit = 100
	adminMaxLimit     = 500

	activeWindow   = 30 * 24 * time.Hour
	statsDays      = 7
	statsMonths    = 6
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

var (
	errSuperAdminRequired = apperror.Forbidden("Super admin access required")
	errSelfDelete         = apperror.Validation("You cannot delete your own account")
	errSelfStatus         = apperror.Validation("You cannot change your own status")
	errUserStatus         = apperror.Validation("Invalid status")
	errAdminRole          = apperror.Validation("Role must be one of: admin, super_admin")
)

// accountScope is the slice of accounts an admin endpoint manages.
type accountScope struct {
	roles        []entity.UserRole
	defaultRole  entity.UserRole
	// roleEditable is false when every account in the scope has the same role.
	roleEditable bool
}

var (
	regularAccounts = accountScope{roles: []entity.UserRole{entity.UserRoleUser}, defaultRole: entity.UserRoleUser}
	adminAccounts   = accountScope{
		roles:        []entity.UserRole{entity.UserRoleAdmin, entity.UserRoleSuperAdmin},
		defaultRole:  entity.UserRoleAdmin,
		roleEditable: true,
	}
)

func (sc accountScope) contains(role entity.UserRole) bool {
	for _, r := range sc.roles {
		if r == role {
			return true
		}
	}
	return false
}

type IAdminService interface {
	ListUsers(ctx context.Context, req *dto.AdminUserListRequest, loc *time.Location) ([]dto.UserResponse, error)
	CreateUser(ctx context.Context, actor *Actor, req *dto.CreateUserRequest, loc *time.Location) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, actor *Actor, id string, req *dto.UpdateUserRequest, loc *time.Location) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, actor *Actor, id string) error
	SetUserStatus(ctx context.Context, actor *Actor, id string, status string, loc *time.Location) (*dto.UserResponse, error)

	ListAdmins(ctx context.Context, req *dto.AdminUserListRequest, loc *time.Location) ([]dto.UserResponse, error)
	CreateAdmin(ctx context.Context, actor *Actor, req *dto.CreateUserRequest, loc *time.Location) (*dto.UserResponse, error)
	UpdateAdmin(ctx context.Context, actor *Actor, id string, req *dto.UpdateUserRequest, loc *time.Location) (*dto.UserResponse, error)
	DeleteAdmin(ctx context.Context, actor *Actor, id string) error

	Stats(ctx context.Context, loc *time.Location) (*dto.StatsResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        Clock
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger, now Clock) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		logger:     log,
		now:        clockOrNow(now),
	}
}

func (s *adminService) ListUsers(ctx context.Context, req *dto.AdminUserListRequest, loc *time.Location) ([]dto.UserResponse, error) {
	return s.listAccounts(ctx, regularAccounts, req, loc)
}

func (s *adminService) CreateUser(ctx context.Context, actor *Actor, req *dto.CreateUserRequest, loc *time.Location) (*dto.UserResponse, error) {
	return s.createAccount(ctx, actor, regularAccounts, req, loc)
}

func (s *adminService) UpdateUser(ctx context.Context, actor *Actor, id string, req *dto.UpdateUserRequest, loc *time.Location) (*dto.UserResponse, error) {
	return s.updateAccount(ctx, actor, regularAccounts, id, req, loc)
}

func (s *adminService) DeleteUser(ctx context.Context, actor *Actor, id string) error {
	return s.deleteAccount(ctx, actor, regularAccounts, id)
}

func (s *adminService) ListAdmins(ctx context.Context, req *dto.AdminUserListRequest, loc *time.Location) ([]dto.UserResponse, error) {
	return s.listAccounts(ctx, adminAccounts, req, loc)
}

func (s *adminService) CreateAdmin(ctx context.Context, actor *Actor, req *dto.CreateUserRequest, loc *time.Location) (*dto.UserResponse, error) {
	return s.createAccount(ctx, actor, adminAccounts, req, loc)
}

func (s *adminService) UpdateAdmin(ctx context.Context, actor *Actor, id string, req *dto.UpdateUserRequest, loc *time.Location) (*dto.UserResponse, error) {
	return s.updateAccount(ctx, actor, adminAccounts, id, req, loc)
}

func (s *adminService) DeleteAdmin(ctx context.Context, actor *Actor, id string) error {
	return s.deleteAccount(ctx, actor, adminAccounts, id)
}

func (s *adminService) listAccounts(ctx context.Context, scope accountScope, req *dto.AdminUserListRequest, loc *time.Location) ([]dto.UserResponse, error) {
	limit, offset := pagination(req.Page, req.Limit, adminDefaultLimit, adminMaxLimit)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx, contract.UserQuery{Roles: scope.roles, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	res := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u, loc))
	}
	return res, nil
}

// resolveRole picks the role for a new or edited account in scope.
func resolveRole(actor *Actor, scope accountScope, requested string) (entity.UserRole, error) {
	if !scope.roleEditable {
		return scope.defaultRole, nil
	}
	role := scope.defaultRole
	if requested = strings.TrimSpace(requested); requested != "" {
		role = entity.UserRole(requested)
	}
	if !scope.contains(role) {
		return "", errAdminRole
	}
	if role == entity.UserRoleSuperAdmin && !actor.Role.AtLeast(entity.UserRoleSuperAdmin) {
		return "", errSuperAdminRequired
	}
	return role, nil
}

func (s *adminService) createAccount(ctx context.Context, actor *Actor, scope accountScope, req *dto.CreateUserRequest, loc *time.Location) (*dto.UserResponse, error) {
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
	role, err := resolveRole(actor, scope, req.Role)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
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
		Role:         role,
		IsActive:     true,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, errUsernameTaken
		}
		return nil, apperror.Internal(err)
	}

	s.logger.Info("ADMIN", "Account created", map[string]interface{}{"actor": actor.Id, "user_id": user.Id, "role": role})
	res := toUserResponse(user, loc)
	return &res, nil
}

// findInScope loads the target account. Accounts outside scope are reported
// as missing, and super admins can only be managed by super admins.
func findInScope(ctx context.Context, users contract.UserRepository, actor *Actor, scope accountScope, id string) (*entity.User, error) {
	userId, err := uuid.Parse(id)
	if err != nil {
		return nil, errUserNotFound
	}
	user, err := users.FindById(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil || !scope.contains(user.Role) {
		return nil, errUserNotFound
	}
	if user.Role == entity.UserRoleSuperAdmin && !actor.Role.AtLeast(entity.UserRoleSuperAdmin) {
		return nil, errSuperAdminRequired
	}
	return user, nil
}

func (s *adminService) updateAccount(ctx context.Context, actor *Actor, scope accountScope, id string, req *dto.UpdateUserRequest, loc *time.Location) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()
	user, err := findInScope(ctx, users, actor, scope, id)
	if err != nil {
		return nil, err
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
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		user.PasswordHash = &hash
	}
	if req.Role != nil && scope.roleEditable {
		role, err := resolveRole(actor, scope, *req.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}

	if err := users.Update(ctx, user); err != nil {
		return nil, userWriteError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("ADMIN", "Account updated", map[string]interface{}{"actor": actor.Id, "user_id": user.Id})
	res := toUserResponse(user, loc)
	return &res, nil
}

func (s *adminService) deleteAccount(ctx context.Context, actor *Actor, scope accountScope, id string) error {
	if id == actor.Id.String() {
		return errSelfDelete
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal(err)
	}
	defer uow.Rollback()

	user, err := findInScope(ctx, uow.UserRepository(), actor, scope, id)
	if err != nil {
		return err
	}
	if err := uow.UserRepository().Delete(ctx, user.Id); err != nil {
		return apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Internal(err)
	}

	s.logger.Info("ADMIN", "Account deleted", map[string]interface{}{"actor": actor.Id, "user_id": user.Id, "username": user.Username})
	return nil
}

func (s *adminService) SetUserStatus(ctx context.Context, actor *Actor, id string, status string, loc *time.Location) (*dto.UserResponse, error) {
	var active bool
	switch entity.UserStatus(strings.TrimSpace(status)) {
	case entity.UserStatusActive:
		active = true
	case entity.UserStatusBanned:
		active = false
	default:
		return nil, errUserStatus
	}
	if id == actor.Id.String() {
		return nil, errSelfStatus
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	all := accountScope{roles: append(append([]entity.UserRole{}, regularAccounts.roles...), adminAccounts.roles...)}
	user, err := findInScope(ctx, uow.UserRepository(), actor, all, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, userWriteError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("ADMIN", "Account status changed", map[string]interface{}{"actor": actor.Id, "user_id": user.Id, "status": user.Status()})
	res := toUserResponse(user, loc)
	return &res, nil
}

// Stats aggregates the dashboard figures. Every window is derived from a
// single reading of the clock, with day and month boundaries taken in loc.
func (s *adminService) Stats(ctx context.Context, loc *time.Location) (*dto.StatsResponse, error) {
	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalUsers, err := uow.UserRepository().Count(ctx, contract.UserQuery{})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	activeUsers, err := uow.UserRepository().CountActive(ctx, now.Add(-activeWindow))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	totalRecognitions, err := uow.HistoryRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	totalFeedback, err := uow.FeedbackRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	byType, err := uow.FeedbackRepository().CountByType(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	firstDay := timeutil.StartOfDay(now, loc).AddDate(0, 0, -(statsDays - 1))
	firstMonth := timeutil.StartOfMonth(now, loc, -(statsMonths - 1))
	since := firstMonth
	if firstDay.Before(since) {
		since = firstDay
	}
	created, err := uow.HistoryRepository().CreatedTimesSince(ctx, since)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.StatsResponse{
		Totals: dto.StatsTotals{
			TotalUsers:        totalUsers,
			TotalRecognitions: totalRecognitions,
			TotalFeedback:     totalFeedback,
			ActiveUsers:       activeUsers,
		},
		RecognitionsPerDay: dailyHistogram(created, firstDay, now, loc),
		FeedbackTypes:      feedbackTypeHistogram(byType),
		MonthlyTrend:       monthlyTrend(created, firstMonth, now, loc),
		GeneratedAt:        timeutil.Format(now, loc),
	}, nil
}

// dailyHistogram buckets times in [firstDay, now] by local calendar day.
func dailyHistogram(times []time.Time, firstDay, now time.Time, loc *time.Location) []dto.DayCount {
	counts := make(map[string]int, statsDays)
	for _, t := range times {
		if t.Before(firstDay) || t.After(now) {
			continue
		}
		counts[t.In(loc).Format(dayKeyLayout)]++
	}

	days := make([]dto.DayCount, 0, statsDays)
	for i := 0; i < statsDays; i++ {
		day := firstDay.AddDate(0, 0, i)
		days = append(days, dto.DayCount{
			Date:  day.Weekday().String()[:3],
			Count: counts[day.Format(dayKeyLayout)],
		})
	}
	return days
}

func monthlyTrend(times []time.Time, firstMonth, now time.Time, loc *time.Location) []dto.MonthCount {
	counts := make(map[string]int, statsMonths)
	for _, t := range times {
		if t.Before(firstMonth) || t.After(now) {
			continue
		}
		counts[t.In(loc).Format(monthKeyLayout)]++
	}

	months := make([]dto.MonthCount, 0, statsMonths)
	for i := 0; i < statsMonths; i++ {
		month := firstMonth.AddDate(0, i, 0)
		key := month.Format(monthKeyLayout)
		months = append(months, dto.MonthCount{
			Month:        key,
			Label:        fmt.Sprintf("%d月", int(month.Month())),
			Recognitions: counts[key],
		})
	}
	return months
}

func feedbackTypeHistogram(counts map[entity.FeedbackType]int64) []dto.FeedbackTypeCount {
	res := make([]dto.FeedbackTypeCount, 0, len(entity.FeedbackTypes))
	for _, t := range entity.FeedbackTypes {
		res = append(res, dto.FeedbackTypeCount{
			Type:  string(t),
			Name:  t.Label(),
			Value: counts[t],
		})
	}
	return res
}
