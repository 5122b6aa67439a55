package handler

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"
	internalWS "lingodocs-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler owns the realtime endpoint plus the chat REST surface. The
// websocket carries pushes only; all writes go through REST.
type ChatHandler struct {
	chatService service.IChatService
	hub         *internalWS.Hub
	sessionAuth *serverutils.SessionAuth
	logger      logger.ILogger
}

func NewChatHandler(chatService service.IChatService, hub *internalWS.Hub, sessionAuth *serverutils.SessionAuth, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		hub:         hub,
		sessionAuth: sessionAuth,
		logger:      log,
	}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.sessionAuth.Handle, h.ServeWs)

	chat := r.Group("/chat")
	chat.Use(h.sessionAuth.Handle)
	chat.Get("/", h.MyChat)
	chat.Post("/messages", h.SendMessage)
	chat.Get("/:id/messages", h.ListMessages)

	admin := r.Group("/admin/chats")
	admin.Use(h.sessionAuth.Handle, serverutils.RequireAdmin)
	admin.Get("/", h.ListChats)
	admin.Get("/online", h.ListOnline)
	admin.Post("/messages", h.AdminSendMessage)
}

// ServeWs upgrades an authenticated request. The session middleware has
// already resolved the principal, so the socket inherits it.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(c)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID := principal.UserID
	role := principal.Role
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("chat", "websocket session started", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, conn, userID, role)
		h.logger.Info("chat", "websocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

func (h *ChatHandler) MyChat(c *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(c)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	chat, err := h.chatService.EnsureChat(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Chat", chat))
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(c)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	var req dto.SendChatMessageRequest
	if err := dto.ParseAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.chatService.SendUserMessage(c.Context(), principal.UserID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message sent", msg))
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(c)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("Invalid chat id")
	}
	messages, err := h.chatService.ListMessages(c.Context(), id, principal.UserID, principal.Role == "admin")
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Messages", messages))
}

func (h *ChatHandler) ListChats(c *fiber.Ctx) error {
	chats, err := h.chatService.ListChats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Chats", chats))
}

func (h *ChatHandler) ListOnline(c *fiber.Ctx) error {
	online, err := h.chatService.ListOnline(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Online users", online))
}

func (h *ChatHandler) AdminSendMessage(c *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(c)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	var req dto.AdminSendChatMessageRequest
	if err := dto.ParseAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.chatService.SendAdminMessage(c.Context(), principal.UserID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message sent", msg))
}
