package controller

import (
	"strconv"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/serverutils"
	"airicepest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const totalCountHeader = "X-Total-Count"

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service service.IKnowledgeService
	tokens  serverutils.TokenVerifier
	logger  logger.ILogger
}

func NewKnowledgeController(service service.IKnowledgeService, tokens serverutils.TokenVerifier, log logger.ILogger) IKnowledgeController {
	return &knowledgeController{service: service, tokens: tokens, logger: log}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	r.Get("/knowledge", c.List)
	r.Get("/knowledge/:id", c.Get)

	admin := r.Group("/admin/knowledge", serverutils.JwtMiddleware(c.tokens), serverutils.RequireRole(entity.UserRoleAdmin))
	admin.Post("/", c.Create)
	admin.Put("/:id", c.Update)
	admin.Delete("/:id", c.Delete)
}

// List returns a bare array; existing clients read it without the envelope.
func (c *knowledgeController) List(ctx *fiber.Ctx) error {
	var req dto.KnowledgeListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, apperror.Validation("Invalid query parameters"))
	}

	items, total, err := c.service.List(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	ctx.Set(totalCountHeader, strconv.FormatInt(total, 10))
	return ctx.JSON(items)
}

func (c *knowledgeController) Get(ctx *fiber.Ctx) error {
	pestId, err := pestIdParam(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	res, err := c.service.Get(ctx.UserContext(), pestId)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Knowledge entry retrieved", res))
}

func (c *knowledgeController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, errInvalidBody)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Knowledge base item created", res))
}

func (c *knowledgeController) Update(ctx *fiber.Ctx) error {
	pestId, err := pestIdParam(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	var req dto.UpdateKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, errInvalidBody)
	}

	res, err := c.service.Update(ctx.UserContext(), pestId, &req)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Knowledge base item updated", res))
}

func (c *knowledgeController) Delete(ctx *fiber.Ctx) error {
	pestId, err := pestIdParam(ctx)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	if err := c.service.Delete(ctx.UserContext(), pestId); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Knowledge base item deleted", nil))
}

// pestIdParam treats a non-numeric id like an unknown one.
func pestIdParam(ctx *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("Item not found")
	}
	return id, nil
}
