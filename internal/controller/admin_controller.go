package controller

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
}

type adminController struct {
	adminService service.IAdminService
	sessionAuth  *serverutils.SessionAuth
}

func NewAdminController(adminService service.IAdminService, sessionAuth *serverutils.SessionAuth) IAdminController {
	return &adminController{adminService: adminService, sessionAuth: sessionAuth}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	admin := r.Group("/admin")
	admin.Use(c.sessionAuth.Handle, serverutils.RequireAdmin)
	admin.Get("/stats", c.Stats)
	admin.Put("/theme", c.UpdateTheme)

	// Theme is publicly readable so the login page can brand itself.
	r.Get("/theme", c.GetTheme)
}

func (c *adminController) Stats(ctx *fiber.Ctx) error {
	stats, err := c.adminService.Stats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Stats", stats))
}

func (c *adminController) GetTheme(ctx *fiber.Ctx) error {
	theme, err := c.adminService.GetTheme(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Theme", theme))
}

func (c *adminController) UpdateTheme(ctx *fiber.Ctx) error {
	var req dto.UpdateThemeRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	theme, err := c.adminService.UpdateTheme(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Theme updated", theme))
}
