package controller

import (
	"car-support-be/internal/dto"
	"car-support-be/internal/pkg/serverutils"
	"car-support-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
	jwtSecret        string
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService, jwtSecret string) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
		jwtSecret:        jwtSecret,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Post("", c.Upload)
	h.Get("stats", c.Stats)
	h.Delete(":sourceId", c.Delete)
}

func (c *knowledgeController) Upload(ctx *fiber.Ctx) error {
	var req dto.UploadKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.knowledgeService.Upload(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Knowledge queued for indexing", res))
}

func (c *knowledgeController) Delete(ctx *fiber.Ctx) error {
	sourceId := ctx.Params("sourceId")
	if sourceId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing source id"))
	}

	res, err := c.knowledgeService.Delete(ctx.UserContext(), sourceId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Knowledge source deleted", res))
}

func (c *knowledgeController) Stats(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.Stats(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Knowledge stats", res))
}
