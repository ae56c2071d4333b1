package controller

import (
	"airicepest-be/internal/dto"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/serverutils"
	"airicepest-be/internal/pkg/storage"
	"airicepest-be/internal/pkg/timeutil"
	"airicepest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const recognizeFileField = "file"

type IRecognitionController interface {
	RegisterRoutes(r fiber.Router)
	History(ctx *fiber.Ctx) error
	Detail(ctx *fiber.Ctx) error
	Recognize(ctx *fiber.Ctx) error
}

type recognitionController struct {
	service  service.IRecognitionService
	storage  storage.IFileStorage
	tokens   serverutils.TokenVerifier
	resolver *timeutil.Resolver
	logger   logger.ILogger
}

func NewRecognitionController(
	service service.IRecognitionService,
	fileStorage storage.IFileStorage,
	tokens serverutils.TokenVerifier,
	resolver *timeutil.Resolver,
	log logger.ILogger,
) IRecognitionController {
	return &recognitionController{
		service:  service,
		storage:  fileStorage,
		tokens:   tokens,
		resolver: resolver,
		logger:   log,
	}
}

func (c *recognitionController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware(c.tokens)
	r.Get("/history", auth, c.History)
	r.Get("/recognitions/:id", auth, c.Detail)
	r.Post("/recognize", auth, c.Recognize)
}

// History returns a bare array.
func (c *recognitionController) History(ctx *fiber.Ctx) error {
	var req dto.HistoryListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, apperror.Validation("Invalid query parameters"))
	}

	caller := service.ActorFromClaims(serverutils.Claims(ctx))
	res, err := c.service.ListHistory(ctx.UserContext(), caller, &req)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(res)
}

// Detail returns a bare object.
func (c *recognitionController) Detail(ctx *fiber.Ctx) error {
	caller := service.ActorFromClaims(serverutils.Claims(ctx))
	res, err := c.service.GetDetail(ctx.UserContext(), caller, ctx.Params("id"), serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(res)
}

// Recognize takes an uploaded "file" or a JSON body with imageUrl.
func (c *recognitionController) Recognize(ctx *fiber.Ctx) error {
	var imageUrl string
	var stored []string
	if file, err := ctx.FormFile(recognizeFileField); err == nil {
		url, err := c.storage.Save(file)
		if err != nil {
			return serverutils.HandleError(ctx, c.logger, apperror.Internal(err))
		}
		imageUrl = url
		stored = append(stored, url)
	} else {
		var req dto.RecognizeRequest
		if len(ctx.Body()) > 0 {
			if err := ctx.BodyParser(&req); err != nil {
				return serverutils.HandleError(ctx, c.logger, errInvalidBody)
			}
		}
		imageUrl = req.ImageUrl
	}

	caller := service.ActorFromClaims(serverutils.Claims(ctx))
	res, err := c.service.Recognize(ctx.UserContext(), caller, imageUrl, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		discardUploads(c.storage, c.logger, stored)
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Recognition completed", res))
}
