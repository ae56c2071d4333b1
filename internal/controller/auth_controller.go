package controller

import (
	"airicepest-be/internal/dto"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/serverutils"
	"airicepest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = apperror.Validation("Invalid request body")

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	logger  logger.ILogger
}

func NewAuthController(service service.IAuthService, log logger.ILogger) IAuthController {
	return &authController{service: service, logger: log}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, errInvalidBody)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("User registered successfully", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, errInvalidBody)
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}
