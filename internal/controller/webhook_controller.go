package controller

import (
	"car-support-be/internal/pkg/logger"
	"car-support-be/internal/service"
	"car-support-be/pkg/line"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Callback(ctx *fiber.Ctx) error
	Home(ctx *fiber.Ctx) error
}

type webhookController struct {
	webhookService service.IWebhookService
	lineClient     *line.Client
	logger         logger.ILogger
}

func NewWebhookController(webhookService service.IWebhookService, lineClient *line.Client, log logger.ILogger) IWebhookController {
	return &webhookController{
		webhookService: webhookService,
		lineClient:     lineClient,
		logger:         log,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/callback", c.Callback)
	r.Get("/", c.Home)
}

// Callback receives LINE webhook deliveries. Everything except a bad
// signature answers 200: a non-2xx makes LINE retry the whole batch and
// users would get duplicate replies.
func (c *webhookController) Callback(ctx *fiber.Ctx) error {
	signature := ctx.Get("x-line-signature")
	body := ctx.Body()

	events, err := c.lineClient.ParseWebhook(signature, body)
	if err != nil {
		c.logger.Warn("WebhookController", "Rejected webhook", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusBadRequest).SendString("Invalid signature")
	}

	for _, ev := range events {
		if err := c.webhookService.HandleEvent(ctx.UserContext(), ev); err != nil {
			c.logger.Error("WebhookController", "Event handling failed", map[string]interface{}{
				"user_id": ev.Source.UserId,
				"error":   err.Error(),
			})
		}
	}

	return ctx.SendString("OK")
}

func (c *webhookController) Home(ctx *fiber.Ctx) error {
	return ctx.SendString("LINE GPT Bot Ready")
}
