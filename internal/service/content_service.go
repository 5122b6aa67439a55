package service

import (
	"context"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IContentService interface {
	ListPrograms(ctx context.Context) ([]*entity.Program, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*entity.Program, error)
	CreateProgram(ctx context.Context, req *dto.CreateProgramRequest) (*entity.Program, error)
	UpdateProgram(ctx context.Context, id uuid.UUID, req *dto.UpdateProgramRequest) (*entity.Program, error)
	DeleteProgram(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context, programId *uuid.UUID) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *dto.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListDocuments(ctx context.Context, programId, categoryId *uuid.UUID) ([]*entity.Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	CreateDocument(ctx context.Context, req *dto.CreateDocumentRequest, createdBy uuid.UUID) (*entity.Document, error)
	CreateDocumentsBulk(ctx context.Context, req *dto.BulkDocumentsRequest, createdBy uuid.UUID) ([]*entity.Document, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, req *dto.UpdateDocumentRequest) (*entity.Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	SearchDocuments(ctx context.Context, query string, limit int) ([]*entity.Document, error)
	TrackDocumentClick(ctx context.Context, userId, documentId uuid.UUID, ip, userAgent string) error
}

type contentService struct {
	uowFactory unitofwork.RepositoryFactory
	activity   IActivityService
	logger     logger.ILogger
}

func NewContentService(uowFactory unitofwork.RepositoryFactory, activity IActivityService, log logger.ILogger) IContentService {
	return &contentService{
		uowFactory: uowFactory,
		activity:   activity,
		logger:     log,
	}
}

// Programs

func (s *contentService) ListPrograms(ctx context.Context) ([]*entity.Program, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ProgramRepository().FindAll(ctx,
		specification.OrderBy{Field: "sort_order", Desc: false},
	)
}

func (s *contentService) GetProgram(ctx context.Context, id uuid.UUID) (*entity.Program, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	program, err := uow.ProgramRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, apperr.NotFound("Program not found")
	}
	return program, nil
}

func (s *contentService) CreateProgram(ctx context.Context, req *dto.CreateProgramRequest) (*entity.Program, error) {
	program := &entity.Program{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProgramRepository().Create(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *contentService) UpdateProgram(ctx context.Context, id uuid.UUID, req *dto.UpdateProgramRequest) (*entity.Program, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProgramRepository()

	program, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, apperr.NotFound("Program not found")
	}

	program.Name = req.Name
	program.Description = req.Description
	program.SortOrder = req.SortOrder
	if err := repo.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *contentService) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProgramRepository()

	program, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if program == nil {
		return apperr.NotFound("Program not found")
	}
	return repo.Delete(ctx, id)
}

// Categories

func (s *contentService) ListCategories(ctx context.Context, programId *uuid.UUID) ([]*entity.Category, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "sort_order", Desc: false},
	}
	if programId != nil {
		specs = append(specs, specification.ByProgram{ProgramID: *programId})
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.CategoryRepository().FindAll(ctx, specs...)
}

func (s *contentService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*entity.Category, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	program, err := uow.ProgramRepository().FindOne(ctx, specification.ByID{ID: req.ProgramId})
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, apperr.NotFound("Program not found")
	}

	category := &entity.Category{
		Id:          uuid.New(),
		ProgramId:   req.ProgramId,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := uow.CategoryRepository().Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *contentService) UpdateCategory(ctx context.Context, id uuid.UUID, req *dto.UpdateCategoryRequest) (*entity.Category, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.CategoryRepository()

	category, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("Category not found")
	}

	category.ProgramId = req.ProgramId
	category.Name = req.Name
	category.Description = req.Description
	category.SortOrder = req.SortOrder
	if err := repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *contentService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.CategoryRepository()

	category, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if category == nil {
		return apperr.NotFound("Category not found")
	}
	return repo.Delete(ctx, id)
}

// Documents

func (s *contentService) ListDocuments(ctx context.Context, programId, categoryId *uuid.UUID) ([]*entity.Document, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if programId != nil {
		specs = append(specs, specification.ByProgram{ProgramID: *programId})
	}
	if categoryId != nil {
		specs = append(specs, specification.ByCategory{CategoryID: *categoryId})
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRepository().FindAll(ctx, specs...)
}

func (s *contentService) GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.NotFound("Document not found")
	}
	return doc, nil
}

// checkDocumentPlacement enforces the schema-level gap: a document carrying
// both a category and a program must reference a category under that same
// program.
func (s *contentService) checkDocumentPlacement(ctx context.Context, uow unitofwork.UnitOfWork, programId, categoryId *uuid.UUID) error {
	if categoryId == nil {
		return nil
	}
	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: *categoryId})
	if err != nil {
		return err
	}
	if category == nil {
		return apperr.NotFound("Category not found")
	}
	if programId != nil && category.ProgramId != *programId {
		return apperr.Validation("Category does not belong to the given program")
	}
	return nil
}

func linksFromPayload(payload []dto.DocumentLinkPayload) []entity.DocumentLink {
	links := make([]entity.DocumentLink, len(payload))
	for i, l := range payload {
		links[i] = entity.DocumentLink{URL: l.URL, Description: l.Description}
	}
	return links
}

func (s *contentService) CreateDocument(ctx context.Context, req *dto.CreateDocumentRequest, createdBy uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.checkDocumentPlacement(ctx, uow, req.ProgramId, req.CategoryId); err != nil {
		return nil, err
	}

	doc := &entity.Document{
		Id:         uuid.New(),
		Title:      req.Title,
		ProgramId:  req.ProgramId,
		CategoryId: req.CategoryId,
		Links:      linksFromPayload(req.Links),
		CreatedBy:  &createdBy,
	}
	if doc.Links == nil {
		doc.Links = []entity.DocumentLink{}
	}
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateDocumentsBulk validates every entry before inserting any, inside one
// transaction, so a bad row cannot leave a partial batch behind.
func (s *contentService) CreateDocumentsBulk(ctx context.Context, req *dto.BulkDocumentsRequest, createdBy uuid.UUID) ([]*entity.Document, error) {
	if len(req.Documents) == 0 {
		return nil, apperr.Validation("Documents array is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	docs := make([]*entity.Document, 0, len(req.Documents))
	for _, item := range req.Documents {
		if err := s.checkDocumentPlacement(ctx, uow, item.ProgramId, item.CategoryId); err != nil {
			return nil, err
		}
		doc := &entity.Document{
			Id:         uuid.New(),
			Title:      item.Title,
			ProgramId:  item.ProgramId,
			CategoryId: item.CategoryId,
			Links:      linksFromPayload(item.Links),
			CreatedBy:  &createdBy,
		}
		if doc.Links == nil {
			doc.Links = []entity.DocumentLink{}
		}
		docs = append(docs, doc)
	}

	if err := uow.DocumentRepository().CreateBatch(ctx, docs); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *contentService) UpdateDocument(ctx context.Context, id uuid.UUID, req *dto.UpdateDocumentRequest) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DocumentRepository()

	doc, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.NotFound("Document not found")
	}

	if err := s.checkDocumentPlacement(ctx, uow, req.ProgramId, req.CategoryId); err != nil {
		return nil, err
	}

	doc.Title = req.Title
	doc.ProgramId = req.ProgramId
	doc.CategoryId = req.CategoryId
	doc.Links = linksFromPayload(req.Links)
	if doc.Links == nil {
		doc.Links = []entity.DocumentLink{}
	}
	if err := repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *contentService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DocumentRepository()

	doc, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if doc == nil {
		return apperr.NotFound("Document not found")
	}
	return repo.Delete(ctx, id)
}

func (s *contentService) SearchDocuments(ctx context.Context, query string, limit int) ([]*entity.Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRepository().Search(ctx, query, limit)
}

func (s *contentService) TrackDocumentClick(ctx context.Context, userId, documentId uuid.UUID, ip, userAgent string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return err
	}
	if doc == nil {
		return apperr.NotFound("Document not found")
	}

	s.activity.Track(ctx, &userId, ActivityDocumentClick, "Opened document "+doc.Title, map[string]interface{}{
		"document_id": documentId.String(),
	}, ip, userAgent)
	return nil
}
