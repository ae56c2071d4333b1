package controller

import (
	"airicepest-be/internal/dto"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/serverutils"
	"airicepest-be/internal/pkg/timeutil"
	"airicepest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
}

type profileController struct {
	service  service.IProfileService
	tokens   serverutils.TokenVerifier
	resolver *timeutil.Resolver
	logger   logger.ILogger
}

func NewProfileController(
	service service.IProfileService,
	tokens serverutils.TokenVerifier,
	resolver *timeutil.Resolver,
	log logger.ILogger,
) IProfileController {
	return &profileController{service: service, tokens: tokens, resolver: resolver, logger: log}
}

func (c *profileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/profile", serverutils.JwtMiddleware(c.tokens))
	h.Get("/", c.GetProfile)
	h.Put("/", c.UpdateProfile)
}

func (c *profileController) GetProfile(ctx *fiber.Ctx) error {
	claims := serverutils.Claims(ctx)
	res, err := c.service.GetProfile(ctx.UserContext(), claims.UserId, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile retrieved", res))
}

func (c *profileController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, errInvalidBody)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	claims := serverutils.Claims(ctx)
	res, err := c.service.UpdateProfile(ctx.UserContext(), claims.UserId, &req, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}
