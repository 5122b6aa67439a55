package implementation

import (
	"context"
	"errors"

	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/mapper"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/contract"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgramRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewProgramRepository(db *gorm.DB) contract.ProgramRepository {
	return &ProgramRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *ProgramRepositoryImpl) Create(ctx context.Context, program *entity.Program) error {
	m := r.mapper.ProgramToModel(program)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*program = *r.mapper.ProgramToEntity(m)
	return nil
}

func (r *ProgramRepositoryImpl) Update(ctx context.Context, program *entity.Program) error {
	m := r.mapper.ProgramToModel(program)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*program = *r.mapper.ProgramToEntity(m)
	return nil
}

func (r *ProgramRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Program{}).Error
}

func (r *ProgramRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Program, error) {
	var m model.Program
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProgramToEntity(&m), nil
}

func (r *ProgramRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Program, error) {
	var models []*model.Program
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ProgramsToEntities(models), nil
}

func (r *ProgramRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.Program{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type CategoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewCategoryRepository(db *gorm.DB) contract.CategoryRepository {
	return &CategoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entity.Category) error {
	m := r.mapper.CategoryToModel(category)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*category = *r.mapper.CategoryToEntity(m)
	return nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *entity.Category) error {
	m := r.mapper.CategoryToModel(category)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*category = *r.mapper.CategoryToEntity(m)
	return nil
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{}).Error
}

func (r *CategoryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	var m model.Category
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CategoryToEntity(&m), nil
}

func (r *CategoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	var models []*model.Category
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.CategoriesToEntities(models), nil
}

func (r *CategoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.Category{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, document *entity.Document) error {
	m := r.mapper.DocumentToModel(document)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.DocumentToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) CreateBatch(ctx context.Context, documents []*entity.Document) error {
	if len(documents) == 0 {
		return nil
	}
	models := r.mapper.DocumentsToModels(documents)
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*documents[i] = *r.mapper.DocumentToEntity(m)
	}
	return nil
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, document *entity.Document) error {
	m := r.mapper.DocumentToModel(document)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.DocumentToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{}).Error
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	var m model.Document
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DocumentToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.DocumentsToEntities(models), nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.Document{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Search matches titles case-insensitively. LOWER + LIKE instead of ILIKE so
// the same query runs on the sqlite fixtures the tests use.
func (r *DocumentRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]*entity.Document, error) {
	var models []*model.Document
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE LOWER(?)", pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.DocumentsToEntities(models), nil
}
