package controller

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IContentController interface {
	RegisterRoutes(r fiber.Router)
}

type contentController struct {
	contentService service.IContentService
	sessionAuth    *serverutils.SessionAuth
}

func NewContentController(contentService service.IContentService, sessionAuth *serverutils.SessionAuth) IContentController {
	return &contentController{contentService: contentService, sessionAuth: sessionAuth}
}

func (c *contentController) RegisterRoutes(r fiber.Router) {
	programs := r.Group("/programs")
	programs.Use(c.sessionAuth.Handle)
	programs.Get("/", c.ListPrograms)
	programs.Get("/:id", c.ShowProgram)
	programs.Post("/", serverutils.RequireAdmin, c.CreateProgram)
	programs.Put("/:id", serverutils.RequireAdmin, c.UpdateProgram)
	programs.Delete("/:id", serverutils.RequireAdmin, c.DeleteProgram)

	categories := r.Group("/categories")
	categories.Use(c.sessionAuth.Handle)
	categories.Get("/", c.ListCategories)
	categories.Post("/", serverutils.RequireAdmin, c.CreateCategory)
	categories.Put("/:id", serverutils.RequireAdmin, c.UpdateCategory)
	categories.Delete("/:id", serverutils.RequireAdmin, c.DeleteCategory)

	documents := r.Group("/documents")
	documents.Use(c.sessionAuth.Handle)
	documents.Get("/", c.ListDocuments)
	documents.Get("/search", c.SearchDocuments)
	documents.Get("/:id", c.ShowDocument)
	documents.Post("/:id/click", c.TrackClick)
	documents.Post("/", serverutils.RequireAdmin, c.CreateDocument)
	documents.Post("/bulk", serverutils.RequireAdmin, c.CreateDocumentsBulk)
	documents.Put("/:id", serverutils.RequireAdmin, c.UpdateDocument)
	documents.Delete("/:id", serverutils.RequireAdmin, c.DeleteDocument)
}

func parseIdParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid id")
	}
	return id, nil
}

func optionalIdQuery(ctx *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("Invalid " + name)
	}
	return &id, nil
}

func (c *contentController) ListPrograms(ctx *fiber.Ctx) error {
	programs, err := c.contentService.ListPrograms(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Programs", programs))
}

func (c *contentController) ShowProgram(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	program, err := c.contentService.GetProgram(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Program", program))
}

func (c *contentController) CreateProgram(ctx *fiber.Ctx) error {
	var req dto.CreateProgramRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	program, err := c.contentService.CreateProgram(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Program created", program))
}

func (c *contentController) UpdateProgram(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateProgramRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	program, err := c.contentService.UpdateProgram(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Program updated", program))
}

func (c *contentController) DeleteProgram(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.contentService.DeleteProgram(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Program deleted", nil))
}

func (c *contentController) ListCategories(ctx *fiber.Ctx) error {
	programId, err := optionalIdQuery(ctx, "program_id")
	if err != nil {
		return err
	}
	categories, err := c.contentService.ListCategories(ctx.Context(), programId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Categories", categories))
}

func (c *contentController) CreateCategory(ctx *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	category, err := c.contentService.CreateCategory(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Category created", category))
}

func (c *contentController) UpdateCategory(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCategoryRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	category, err := c.contentService.UpdateCategory(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Category updated", category))
}

func (c *contentController) DeleteCategory(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.contentService.DeleteCategory(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Category deleted", nil))
}

func (c *contentController) ListDocuments(ctx *fiber.Ctx) error {
	programId, err := optionalIdQuery(ctx, "program_id")
	if err != nil {
		return err
	}
	categoryId, err := optionalIdQuery(ctx, "category_id")
	if err != nil {
		return err
	}
	documents, err := c.contentService.ListDocuments(ctx.Context(), programId, categoryId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Documents", documents))
}

func (c *contentController) SearchDocuments(ctx *fiber.Ctx) error {
	q := ctx.Query("q")
	limit := ctx.QueryInt("limit", 20)
	documents, err := c.contentService.SearchDocuments(ctx.Context(), q, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Documents", documents))
}

func (c *contentController) ShowDocument(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	document, err := c.contentService.GetDocument(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document", document))
}

func (c *contentController) CreateDocument(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	var req dto.CreateDocumentRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	document, err := c.contentService.CreateDocument(ctx.Context(), &req, principal.UserID)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Document created", document))
}

func (c *contentController) CreateDocumentsBulk(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	var req dto.BulkDocumentsRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	documents, err := c.contentService.CreateDocumentsBulk(ctx.Context(), &req, principal.UserID)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Documents created", documents))
}

func (c *contentController) UpdateDocument(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateDocumentRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	document, err := c.contentService.UpdateDocument(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document updated", document))
}

func (c *contentController) DeleteDocument(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.contentService.DeleteDocument(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Document deleted", nil))
}

func (c *contentController) TrackClick(ctx *fiber.Ctx) error {
	principal, ok := serverutils.PrincipalFromCtx(ctx)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.contentService.TrackDocumentClick(ctx.Context(), principal.UserID, id, ctx.IP(), ctx.Get(fiber.HeaderUserAgent)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Click tracked", nil))
}
