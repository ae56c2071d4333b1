package controller

import (
	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/serverutils"
	"airicepest-be/internal/pkg/timeutil"
	"airicepest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetStats(ctx *fiber.Ctx) error

	ListUsers(ctx *fiber.Ctx) error
	CreateUser(ctx *fiber.Ctx) error
	UpdateUser(ctx *fiber.Ctx) error
	DeleteUser(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error

	ListAdmins(ctx *fiber.Ctx) error
	CreateAdmin(ctx *fiber.Ctx) error
	UpdateAdmin(ctx *fiber.Ctx) error
	DeleteAdmin(ctx *fiber.Ctx) error
}

type adminController struct {
	service  service.IAdminService
	tokens   serverutils.TokenVerifier
	resolver *timeutil.Resolver
	logger   logger.ILogger
}

func NewAdminController(
	service service.IAdminService,
	tokens serverutils.TokenVerifier,
	resolver *timeutil.Resolver,
	log logger.ILogger,
) IAdminController {
	return &adminController{service: service, tokens: tokens, resolver: resolver, logger: log}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware(c.tokens)
	adminOnly := serverutils.RequireRole(entity.UserRoleAdmin)

	r.Get("/admin/stats", auth, adminOnly, c.GetStats)

	users := r.Group("/admin/users", auth, adminOnly)
	users.Get("/", c.ListUsers)
	users.Post("/", c.CreateUser)
	users.Put("/:id/status", c.UpdateUserStatus)
	users.Put("/:id", c.UpdateUser)
	users.Delete("/:id", c.DeleteUser)

	admins := r.Group("/admin/admins", auth, adminOnly)
	admins.Get("/", c.ListAdmins)
	admins.Post("/", c.CreateAdmin)
	admins.Put("/:id", c.UpdateAdmin)
	admins.Delete("/:id", c.DeleteAdmin)
}

func (c *adminController) GetStats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.UserContext(), serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Stats retrieved", res))
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	var req dto.AdminUserListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, apperror.Validation("Invalid query parameters"))
	}
	res, err := c.service.ListUsers(ctx.UserContext(), &req, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Users retrieved", res))
}

func (c *adminController) CreateUser(ctx *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.parseAndValidate(ctx, &req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	res, err := c.service.CreateUser(ctx.UserContext(), actor(ctx), &req, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("User created", res))
}

func (c *adminController) UpdateUser(ctx *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.parseAndValidate(ctx, &req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	res, err := c.service.UpdateUser(ctx.UserContext(), actor(ctx), ctx.Params("id"), &req, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("User updated", res))
}

func (c *adminController) DeleteUser(ctx *fiber.Ctx) error {
	if err := c.service.DeleteUser(ctx.UserContext(), actor(ctx), ctx.Params("id")); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User deleted", nil))
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	var req dto.UpdateUserStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, errInvalidBody)
	}
	res, err := c.service.SetUserStatus(ctx.UserContext(), actor(ctx), ctx.Params("id"), req.Status, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("User status updated", res))
}

func (c *adminController) ListAdmins(ctx *fiber.Ctx) error {
	var req dto.AdminUserListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, apperror.Validation("Invalid query parameters"))
	}
	res, err := c.service.ListAdmins(ctx.UserContext(), &req, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Admins retrieved", res))
}

func (c *adminController) CreateAdmin(ctx *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.parseAndValidate(ctx, &req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	res, err := c.service.CreateAdmin(ctx.UserContext(), actor(ctx), &req, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Admin created", res))
}

func (c *adminController) UpdateAdmin(ctx *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.parseAndValidate(ctx, &req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	res, err := c.service.UpdateAdmin(ctx.UserContext(), actor(ctx), ctx.Params("id"), &req, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Admin updated", res))
}

func (c *adminController) DeleteAdmin(ctx *fiber.Ctx) error {
	if err := c.service.DeleteAdmin(ctx.UserContext(), actor(ctx), ctx.Params("id")); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Admin deleted", nil))
}

func (c *adminController) parseAndValidate(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return errInvalidBody
	}
	return serverutils.ValidateRequest(req)
}

// actor is only called behind JwtMiddleware, so claims are present.
func actor(ctx *fiber.Ctx) *service.Actor {
	return service.ActorFromClaims(serverutils.Claims(ctx))
}
