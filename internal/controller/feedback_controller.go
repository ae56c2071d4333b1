package controller

import (
	"strings"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/serverutils"
	"airicepest-be/internal/pkg/storage"
	"airicepest-be/internal/pkg/timeutil"
	"airicepest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const feedbackImagesField = "images"

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
}

type feedbackController struct {
	service  service.IFeedbackService
	storage  storage.IFileStorage
	tokens   serverutils.TokenVerifier
	resolver *timeutil.Resolver
	logger   logger.ILogger
}

func NewFeedbackController(
	service service.IFeedbackService,
	fileStorage storage.IFileStorage,
	tokens serverutils.TokenVerifier,
	resolver *timeutil.Resolver,
	log logger.ILogger,
) IFeedbackController {
	return &feedbackController{
		service:  service,
		storage:  fileStorage,
		tokens:   tokens,
		resolver: resolver,
		logger:   log,
	}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware(c.tokens)
	r.Post("/feedback", auth, c.Submit)

	admin := r.Group("/admin/feedbacks", auth, serverutils.RequireRole(entity.UserRoleAdmin))
	admin.Get("/", c.List)
	admin.Put("/:id/status", c.UpdateStatus)
}

// Submit accepts a JSON body with image URLs, or a multipart form whose
// "images" files are stored first.
func (c *feedbackController) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, errInvalidBody)
	}

	if _, _, err := service.ParseSubmission(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	var stored []string
	if isMultipart(ctx) {
		form, err := ctx.MultipartForm()
		if err != nil {
			return serverutils.HandleError(ctx, c.logger, errInvalidBody)
		}
		req.ImageUrls = nil
		for _, file := range form.File[feedbackImagesField] {
			if file.Filename == "" {
				continue
			}
			url, err := c.storage.Save(file)
			if err != nil {
				discardUploads(c.storage, c.logger, stored)
				return serverutils.HandleError(ctx, c.logger, apperror.Internal(err))
			}
			stored = append(stored, url)
		}
		req.ImageUrls = stored
	}

	author := service.ActorFromClaims(serverutils.Claims(ctx))
	res, err := c.service.Submit(ctx.UserContext(), author, &req, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		discardUploads(c.storage, c.logger, stored)
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Feedback submitted successfully", res))
}

func (c *feedbackController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext(), serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Feedback retrieved", res))
}

func (c *feedbackController) UpdateStatus(ctx *fiber.Ctx) error {
	var req dto.UpdateFeedbackStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, errInvalidBody)
	}

	res, err := c.service.UpdateStatus(ctx.UserContext(), ctx.Params("id"), req.Status, serverutils.RequestLocation(ctx, c.resolver))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Feedback status updated", res))
}

// discardUploads removes files stored for a request that then failed.
func discardUploads(files storage.IFileStorage, log logger.ILogger, urls []string) {
	for _, url := range urls {
		if err := files.Remove(url); err != nil {
			log.Warn("UPLOAD", "Failed to remove orphaned upload", map[string]interface{}{"url": url, "error": err})
		}
	}
}

func isMultipart(ctx *fiber.Ctx) bool {
	return strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}
