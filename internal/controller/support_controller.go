package controller

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISupportController interface {
	RegisterRoutes(r fiber.Router)
}

type supportController struct {
	supportService service.ISupportService
	sessionAuth    *serverutils.SessionAuth
}

func NewSupportController(supportService service.ISupportService, sessionAuth *serverutils.SessionAuth) ISupportController {
	return &supportController{supportService: supportService, sessionAuth: sessionAuth}
}

func (c *supportController) RegisterRoutes(r fiber.Router) {
	tickets := r.Group("/support/tickets")
	tickets.Use(c.sessionAuth.Handle)
	tickets.Get("/", c.ListTickets)
	tickets.Get("/:id", c.ShowTicket)
	tickets.Post("/", c.CreateTicket)
	tickets.Patch("/:id/status", serverutils.RequireAdmin, c.UpdateTicketStatus)
	tickets.Post("/:id/responses", serverutils.RequireAdmin, c.RespondToTicket)

	requests := r.Group("/account-requests")
	requests.Use(c.sessionAuth.Handle)
	requests.Get("/", c.ListAccountRequests)
	requests.Post("/", c.CreateAccountRequest)
	requests.Patch("/:id", serverutils.RequireAdmin, c.ReviewAccountRequest)
}

func (c *supportController) CreateTicket(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	var req dto.CreateTicketRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	ticket, err := c.supportService.CreateTicket(ctx.Context(), principal.UserID, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Ticket created", ticket))
}

// ListTickets returns the caller's own tickets; admins see everything.
func (c *supportController) ListTickets(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}

	var owner *uuid.UUID
	if principal.Role != "admin" {
		owner = &principal.UserID
	}
	tickets, err := c.supportService.ListTickets(ctx.Context(), owner)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tickets", tickets))
}

func (c *supportController) ShowTicket(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	ticket, responses, err := c.supportService.GetTicket(ctx.Context(), id, principal.UserID, principal.Role == "admin")
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Ticket", fiber.Map{
		"ticket":    ticket,
		"responses": responses,
	}))
}

func (c *supportController) UpdateTicketStatus(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketStatusRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	ticket, err := c.supportService.UpdateTicketStatus(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Ticket updated", ticket))
}

func (c *supportController) RespondToTicket(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CreateTicketResponseRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	response, err := c.supportService.RespondToTicket(ctx.Context(), id, principal.UserID, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Response added", response))
}

func (c *supportController) CreateAccountRequest(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	var req dto.CreateAccountRequestRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	request, err := c.supportService.CreateAccountRequest(ctx.Context(), principal.UserID, &req, nil)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Account request created", request))
}

func (c *supportController) ListAccountRequests(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}

	var owner *uuid.UUID
	if principal.Role != "admin" {
		owner = &principal.UserID
	}
	requests, err := c.supportService.ListAccountRequests(ctx.Context(), owner)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Account requests", requests))
}

func (c *supportController) ReviewAccountRequest(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.ReviewAccountRequestRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	request, err := c.supportService.ReviewAccountRequest(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Account request reviewed", request))
}
