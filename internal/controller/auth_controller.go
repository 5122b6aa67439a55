package controller

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"
	"lingodocs-be/internal/session"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
}

type authController struct {
	authService   service.IAuthService
	sessionAuth   *serverutils.SessionAuth
	sessionSecret string
	secureCookies bool
}

func NewAuthController(authService service.IAuthService, sessionAuth *serverutils.SessionAuth, sessionSecret string, secureCookies bool) IAuthController {
	return &authController{
		authService:   authService,
		sessionAuth:   sessionAuth,
		sessionSecret: sessionSecret,
		secureCookies: secureCookies,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	r.Post("/register", c.Register)
	// GET /login belongs to the OIDC controller; the local form POSTs here.
	r.Post("/login", c.Login)
	r.Post("/forgot-password", c.ForgotPassword)
	r.Post("/reset-password", c.ResetPassword)

	auth := r.Group("/auth")
	auth.Get("/user", c.sessionAuth.Handle, c.Me)
	auth.Post("/change-password", c.sessionAuth.Handle, c.ChangePassword)

	r.Post("/logout", c.sessionAuth.Handle, c.Logout)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	user, err := c.authService.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).
		JSON(serverutils.SuccessResponse("Account created", dto.NewUserResponse(user)))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	user, sid, err := c.authService.Login(ctx.Context(), &req, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}

	serverutils.SetSessionCookie(ctx, sid, c.sessionSecret, session.TTL, c.secureCookies)
	return ctx.JSON(serverutils.SuccessResponse("Logged in", dto.NewUserResponse(user)))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	sid, _ := serverutils.SidFromCtx(ctx)

	if err := c.authService.Logout(ctx.Context(), sid, principal.UserID, ctx.IP(), ctx.Get(fiber.HeaderUserAgent)); err != nil {
		return err
	}

	serverutils.ClearSessionCookie(ctx)
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out", nil))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}

	user, err := c.authService.Me(ctx.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Current user", dto.NewUserResponse(user)))
}

func (c *authController) ChangePassword(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}

	var req dto.ChangePasswordRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	if err := c.authService.ChangePassword(ctx.Context(), principal.UserID, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password changed", nil))
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	if err := c.authService.ForgotPassword(ctx.Context(), &req); err != nil {
		return err
	}
	// Deliberately identical response whether or not the email exists.
	return ctx.JSON(serverutils.SuccessResponse[any]("If the email exists, a reset link has been sent", nil))
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	if err := c.authService.ResetPassword(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password reset", nil))
}
