package controller

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router)
}

type activityController struct {
	activityService service.IActivityService
	sessionAuth     *serverutils.SessionAuth
}

func NewActivityController(activityService service.IActivityService, sessionAuth *serverutils.SessionAuth) IActivityController {
	return &activityController{activityService: activityService, sessionAuth: sessionAuth}
}

func (c *activityController) RegisterRoutes(r fiber.Router) {
	activities := r.Group("/activities")
	activities.Use(c.sessionAuth.Handle)
	activities.Post("/track", c.Track)
	activities.Get("/", serverutils.RequireAdmin, c.List)
}

// Track records a client-reported activity, always attributed to the
// session user.
func (c *activityController) Track(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}

	var req dto.TrackActivityRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	c.activityService.Track(ctx.Context(), &principal.UserID, req.Type, req.Description, req.Metadata, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	return ctx.JSON(serverutils.SuccessResponse[any]("Activity tracked", nil))
}

func (c *activityController) List(ctx *fiber.Ctx) error {
	userId, err := optionalIdQuery(ctx, "user_id")
	if err != nil {
		return err
	}
	actType := ctx.Query("type")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	activities, err := c.activityService.List(ctx.Context(), userId, actType, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Activities", activities))
}
