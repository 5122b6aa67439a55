package controller

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
}

type assistantController struct {
	assistantService service.IAssistantService
	sessionAuth      *serverutils.SessionAuth
}

func NewAssistantController(assistantService service.IAssistantService, sessionAuth *serverutils.SessionAuth) IAssistantController {
	return &assistantController{assistantService: assistantService, sessionAuth: sessionAuth}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	assistant := r.Group("/assistant")
	assistant.Use(c.sessionAuth.Handle)
	assistant.Post("/ask", c.Ask)
	assistant.Get("/conversations", c.ListConversations)
	assistant.Get("/conversations/:id", c.ShowConversation)
	assistant.Patch("/conversations/:id", c.RenameConversation)
	assistant.Delete("/conversations/:id", c.DeleteConversation)
	assistant.Get("/faqs", c.ListFaqs)

	kb := r.Group("/knowledge-base")
	kb.Use(c.sessionAuth.Handle, serverutils.RequireAdmin)
	kb.Get("/categories", c.ListKbCategories)
	kb.Post("/categories", c.CreateKbCategory)
	kb.Post("/articles", c.CreateArticle)
	kb.Delete("/articles/:id", c.DeleteArticle)
	kb.Post("/faqs", c.CreateFaq)
	kb.Delete("/faqs/:id", c.DeleteFaq)
	kb.Get("/training-files", c.ListTrainingFiles)
	kb.Post("/training-files", c.UploadTrainingFile)
}

func (c *assistantController) Ask(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	var req dto.AskRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	res, err := c.assistantService.Ask(ctx.Context(), principal.UserID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer", res))
}

func (c *assistantController) ListConversations(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	conversations, err := c.assistantService.ListConversations(ctx.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversations", conversations))
}

func (c *assistantController) ShowConversation(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	conversation, messages, err := c.assistantService.GetConversation(ctx.Context(), principal.UserID, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation", fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	}))
}

func (c *assistantController) RenameConversation(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.RenameConversationRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	conversation, err := c.assistantService.RenameConversation(ctx.Context(), principal.UserID, id, req.Title)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation renamed", conversation))
}

func (c *assistantController) DeleteConversation(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.assistantService.DeleteConversation(ctx.Context(), principal.UserID, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation deleted", nil))
}

func (c *assistantController) ListFaqs(ctx *fiber.Ctx) error {
	faqs, err := c.assistantService.ListFaqs(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("FAQs", faqs))
}

func (c *assistantController) CreateFaq(ctx *fiber.Ctx) error {
	var req dto.CreateFaqRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	faq, err := c.assistantService.CreateFaq(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("FAQ created", faq))
}

func (c *assistantController) DeleteFaq(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.assistantService.DeleteFaq(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("FAQ deleted", nil))
}

func (c *assistantController) ListKbCategories(ctx *fiber.Ctx) error {
	categories, err := c.assistantService.ListKbCategories(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Categories", categories))
}

func (c *assistantController) CreateKbCategory(ctx *fiber.Ctx) error {
	var req dto.CreateKbCategoryRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	category, err := c.assistantService.CreateKbCategory(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Category created", category))
}

func (c *assistantController) CreateArticle(ctx *fiber.Ctx) error {
	var req dto.CreateKbArticleRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	article, err := c.assistantService.CreateArticle(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Article created", article))
}

func (c *assistantController) DeleteArticle(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.assistantService.DeleteArticle(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Article deleted", nil))
}

func (c *assistantController) UploadTrainingFile(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	var req dto.UploadTrainingFileRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	file, err := c.assistantService.UploadTrainingFile(ctx.Context(), principal.UserID, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Training file queued", file))
}

func (c *assistantController) ListTrainingFiles(ctx *fiber.Ctx) error {
	files, err := c.assistantService.ListTrainingFiles(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Training files", files))
}
