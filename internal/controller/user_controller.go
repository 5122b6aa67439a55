package controller

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
}

type userController struct {
	userService service.IUserService
	sessionAuth *serverutils.SessionAuth
}

func NewUserController(userService service.IUserService, sessionAuth *serverutils.SessionAuth) IUserController {
	return &userController{userService: userService, sessionAuth: sessionAuth}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	users := r.Group("/users")
	users.Use(c.sessionAuth.Handle, serverutils.RequireAdmin)
	users.Get("/", c.List)
	users.Post("/", c.Create)
	users.Get("/:id", c.Show)
	users.Put("/:id", c.Update)
	users.Delete("/:id", c.Delete)
}

func (c *userController) List(ctx *fiber.Ctx) error {
	users, err := c.userService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", dto.NewUserResponses(users)))
}

func (c *userController) Create(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}

	var req dto.CreateUserRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	user, err := c.userService.Create(ctx.Context(), principal.UserID, &req, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).
		JSON(serverutils.SuccessResponse("User created", dto.NewUserResponse(user)))
}

func (c *userController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validation("Invalid user id")
	}
	user, err := c.userService.Get(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User", dto.NewUserResponse(user)))
}

func (c *userController) Update(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validation("Invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	user, err := c.userService.Update(ctx.Context(), principal.UserID, id, &req, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User updated", dto.NewUserResponse(user)))
}

func (c *userController) Delete(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validation("Invalid user id")
	}

	if err := c.userService.Delete(ctx.Context(), principal.UserID, id, ctx.IP(), ctx.Get(fiber.HeaderUserAgent)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User deleted", nil))
}
