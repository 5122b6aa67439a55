package controller

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router)
}

type notificationController struct {
	notificationService service.INotificationService
	sessionAuth         *serverutils.SessionAuth
}

func NewNotificationController(notificationService service.INotificationService, sessionAuth *serverutils.SessionAuth) INotificationController {
	return &notificationController{notificationService: notificationService, sessionAuth: sessionAuth}
}

func (c *notificationController) RegisterRoutes(r fiber.Router) {
	notifications := r.Group("/notifications")
	notifications.Use(c.sessionAuth.Handle)
	notifications.Get("/", c.List)
	notifications.Get("/unread-count", c.UnreadCount)
	notifications.Patch("/:id/read", c.MarkRead)
	notifications.Patch("/read-all", c.MarkAllRead)
	notifications.Post("/", serverutils.RequireAdmin, c.Create)
	notifications.Delete("/:id", serverutils.RequireAdmin, c.Delete)

	types := r.Group("/notification-types")
	types.Use(c.sessionAuth.Handle, serverutils.RequireAdmin)
	types.Get("/", c.ListTypes)
	types.Put("/", c.SaveType)
}

func (c *notificationController) List(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	notifications, err := c.notificationService.ListForUser(ctx.Context(), principal.UserID, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notifications", notifications))
}

func (c *notificationController) UnreadCount(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	count, err := c.notificationService.UnreadCount(ctx.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Unread count", fiber.Map{"count": count}))
}

func (c *notificationController) MarkRead(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.notificationService.MarkRead(ctx.Context(), principal.UserID, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Marked as read", nil))
}

func (c *notificationController) MarkAllRead(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	if err := c.notificationService.MarkAllRead(ctx.Context(), principal.UserID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("All marked as read", nil))
}

func (c *notificationController) Create(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	var req dto.CreateNotificationRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	notification, err := c.notificationService.Create(ctx.Context(), &req, &principal.UserID)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Notification created", notification))
}

func (c *notificationController) Delete(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.notificationService.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Notification deleted", nil))
}

func (c *notificationController) ListTypes(ctx *fiber.Ctx) error {
	types, err := c.notificationService.ListTypes(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notification types", types))
}

func (c *notificationController) SaveType(ctx *fiber.Ctx) error {
	var req dto.SaveNotificationTypeRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	saved, err := c.notificationService.SaveType(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notification type saved", saved))
}
