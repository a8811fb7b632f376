package controller

import (
	"ai-admissions-be/internal/dto"
	"ai-admissions-be/internal/pkg/serverutils"
	"ai-admissions-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService   service.IChatService
	healthService service.IHealthService
}

func NewChatController(chatService service.IChatService, healthService service.IHealthService) IChatController {
	return &chatController{
		chatService:   chatService,
		healthService: healthService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Get("/session/:id", c.GetSession)
	r.Delete("/session/:id", c.DeleteSession)
	r.Get("/health", c.Health)
	r.Get("/stats", c.Stats)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetSessionSummary(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	if err := c.chatService.ResetSession(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset session", nil))
}

func (c *chatController) Health(ctx *fiber.Ctx) error {
	res := c.healthService.Check(ctx.UserContext())
	if res.Status != service.StatusHealthy {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.BaseResponse[*dto.HealthResponse]{
			Success: false,
			Code:    fiber.StatusServiceUnavailable,
			Message: "Degraded",
			Data:    res,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Healthy", res))
}

func (c *chatController) Stats(ctx *fiber.Ctx) error {
	res, err := c.chatService.Stats(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}
