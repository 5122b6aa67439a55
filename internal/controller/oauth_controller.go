package controller

import (
	"time"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"
	"lingodocs-be/internal/session"

	"github.com/gofiber/fiber/v2"
)

const oauthStateCookie = "oauth_state"

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
}

type oauthController struct {
	oauthService  service.IOAuthService
	clientURL     string
	sessionSecret string
	secureCookies bool
}

func NewOAuthController(oauthService service.IOAuthService, clientURL, sessionSecret string, secureCookies bool) IOAuthController {
	return &oauthController{
		oauthService:  oauthService,
		clientURL:     clientURL,
		sessionSecret: sessionSecret,
		secureCookies: secureCookies,
	}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	r.Get("/login", c.ReplitLogin)
	r.Get("/callback", c.ReplitCallback)

	google := r.Group("/auth/google")
	google.Get("/", c.GoogleLogin)
	google.Get("/callback", c.GoogleCallback)
}

func (c *oauthController) setStateCookie(ctx *fiber.Ctx, state string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   c.secureCookies,
		SameSite: "Lax",
	})
}

func (c *oauthController) checkState(ctx *fiber.Ctx) error {
	state := ctx.Query("state")
	saved := ctx.Cookies(oauthStateCookie)
	if state == "" || saved == "" || state != saved {
		return apperr.Unauthorized("Invalid OAuth state")
	}
	ctx.ClearCookie(oauthStateCookie)
	return nil
}

func (c *oauthController) ReplitLogin(ctx *fiber.Ctx) error {
	url, state, err := c.oauthService.ReplitLoginURL(ctx.Hostname())
	if err != nil {
		return err
	}
	c.setStateCookie(ctx, state)
	return ctx.Redirect(url, fiber.StatusFound)
}

func (c *oauthController) ReplitCallback(ctx *fiber.Ctx) error {
	if err := c.checkState(ctx); err != nil {
		return err
	}
	code := ctx.Query("code")
	if code == "" {
		return apperr.Validation("Missing authorization code")
	}

	_, sid, err := c.oauthService.HandleReplitCallback(ctx.Context(), ctx.Hostname(), code)
	if err != nil {
		return err
	}

	serverutils.SetSessionCookie(ctx, sid, c.sessionSecret, session.TTL, c.secureCookies)
	return ctx.Redirect(c.clientURL, fiber.StatusFound)
}

func (c *oauthController) GoogleLogin(ctx *fiber.Ctx) error {
	if !c.oauthService.GoogleEnabled() {
		return apperr.NotFound("Google login is not configured")
	}
	url, state, err := c.oauthService.GoogleLoginURL()
	if err != nil {
		return err
	}
	c.setStateCookie(ctx, state)
	return ctx.Redirect(url, fiber.StatusFound)
}

func (c *oauthController) GoogleCallback(ctx *fiber.Ctx) error {
	if !c.oauthService.GoogleEnabled() {
		return apperr.NotFound("Google login is not configured")
	}
	if err := c.checkState(ctx); err != nil {
		return err
	}
	code := ctx.Query("code")
	if code == "" {
		return apperr.Validation("Missing authorization code")
	}

	user, sid, err := c.oauthService.HandleGoogleCallback(ctx.Context(), code)
	if err != nil {
		return err
	}

	serverutils.SetSessionCookie(ctx, sid, c.sessionSecret, session.TTL, c.secureCookies)

	// API clients get JSON; browsers get sent back to the app.
	if ctx.Accepts("text/html") == "" {
		return ctx.JSON(serverutils.SuccessResponse("Logged in", dto.NewUserResponse(user)))
	}
	return ctx.Redirect(c.clientURL, fiber.StatusFound)
}
