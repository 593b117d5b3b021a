package controller

import (
	"car-support-be/internal/pkg/logger"
	"car-support-be/internal/pkg/serverutils"
	"car-support-be/internal/service"
	internalWS "car-support-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

type IOperatorController interface {
	RegisterRoutes(r fiber.Router)
	ManualMode(ctx *fiber.Ctx) error
	Transcript(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type operatorController struct {
	operatorService service.IOperatorService
	hub             *internalWS.Hub
	jwtSecret       string
	logger          logger.ILogger
}

func NewOperatorController(operatorService service.IOperatorService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) IOperatorController {
	return &operatorController{
		operatorService: operatorService,
		hub:             hub,
		jwtSecret:       jwtSecret,
		logger:          log,
	}
}

func (c *operatorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/operator/v1")
	// The ws route authenticates inside the handshake; browser websocket
	// clients cannot set an Authorization header.
	h.Get("ws", c.ServeWs)

	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("sessions/:userId/manual", c.ManualMode)
	h.Get("sessions/:userId/transcript", c.Transcript)
}

func (c *operatorController) ManualMode(ctx *fiber.Ctx) error {
	userId := ctx.Params("userId")
	if userId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing user id"))
	}

	res, err := c.operatorService.ManualMode(ctx.UserContext(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Manual mode state", res))
}

func (c *operatorController) Transcript(ctx *fiber.Ctx) error {
	userId := ctx.Params("userId")
	if userId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing user id"))
	}
	limit := ctx.QueryInt("limit", 50)

	res, err := c.operatorService.Transcript(ctx.UserContext(), userId, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Transcript", res))
}

// ServeWs upgrades an operator dashboard connection. The token comes
// from the "token" query param or the Authorization header.
func (c *operatorController) ServeWs(ctx *fiber.Ctx) error {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(c.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		c.logger.Warn("OperatorController", "Invalid token in ws handshake", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	operatorId, _ := claims["sub"].(string)
	if operatorId == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing subject"})
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("OperatorController", "Dashboard session started", map[string]interface{}{"operator_id": operatorId})
			internalWS.ServeWs(c.hub, conn, operatorId)
			c.logger.Info("OperatorController", "Dashboard session ended", map[string]interface{}{"operator_id": operatorId})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
