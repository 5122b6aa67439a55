package service

import (
	"context"
	"testing"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContentFixture(t *testing.T) (IContentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	activity := NewActivityService(factory, noopLogger{})
	return NewContentService(factory, activity, noopLogger{}), db
}

func TestCreateDocumentRejectsMismatchedPlacement(t *testing.T) {
	svc, _ := newContentFixture(t)
	ctx := context.Background()
	admin := uuid.New()

	programA, err := svc.CreateProgram(ctx, &dto.CreateProgramRequest{Name: "Tiếng Anh A1"})
	require.NoError(t, err)
	programB, err := svc.CreateProgram(ctx, &dto.CreateProgramRequest{Name: "Tiếng Anh B2"})
	require.NoError(t, err)

	category, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{
		ProgramId: programA.Id,
		Name:      "Ngữ pháp",
	})
	require.NoError(t, err)

	_, err = svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
		Title:      "Bài 1",
		ProgramId:  &programB.Id,
		CategoryId: &category.Id,
	}, admin)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Category does not belong to the given program", apperr.Message(err))

	// Matching placement passes.
	doc, err := svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
		Title:      "Bài 1",
		ProgramId:  &programA.Id,
		CategoryId: &category.Id,
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Bài 1", doc.Title)
}

func TestCreateDocumentUnknownCategory(t *testing.T) {
	svc, _ := newContentFixture(t)
	ctx := context.Background()

	missing := uuid.New()
	_, err := svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
		Title:      "Bài 1",
		CategoryId: &missing,
	}, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBulkDocumentsRequiresNonEmptyArray(t *testing.T) {
	svc, _ := newContentFixture(t)

	_, err := svc.CreateDocumentsBulk(context.Background(), &dto.BulkDocumentsRequest{}, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Documents array is required", apperr.Message(err))
}

func TestBulkDocumentsIsAtomic(t *testing.T) {
	svc, db := newContentFixture(t)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, &dto.CreateProgramRequest{Name: "Tiếng Anh A1"})
	require.NoError(t, err)
	category, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{
		ProgramId: program.Id,
		Name:      "Ngữ pháp",
	})
	require.NoError(t, err)

	missing := uuid.New()
	_, err = svc.CreateDocumentsBulk(ctx, &dto.BulkDocumentsRequest{
		Documents: []dto.CreateDocumentRequest{
			{Title: "Hợp lệ", ProgramId: &program.Id, CategoryId: &category.Id},
			{Title: "Hỏng", CategoryId: &missing},
		},
	}, uuid.New())
	require.Error(t, err)

	// The bad row must not leave the good one behind.
	var count int64
	require.NoError(t, db.Model(&model.Document{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	docs, err := svc.CreateDocumentsBulk(ctx, &dto.BulkDocumentsRequest{
		Documents: []dto.CreateDocumentRequest{
			{Title: "Một", ProgramId: &program.Id, CategoryId: &category.Id},
			{Title: "Hai", ProgramId: &program.Id},
		},
	}, uuid.New())
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	require.NoError(t, db.Model(&model.Document{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDeleteProgramCascadesFilters(t *testing.T) {
	svc, _ := newContentFixture(t)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, &dto.CreateProgramRequest{Name: "Tiếng Anh A1"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, &dto.CreateCategoryRequest{ProgramId: program.Id, Name: "Ngữ pháp"})
	require.NoError(t, err)

	categories, err := svc.ListCategories(ctx, &program.Id)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	other := uuid.New()
	categories, err = svc.ListCategories(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestTrackDocumentClick(t *testing.T) {
	svc, db := newContentFixture(t)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, &dto.CreateProgramRequest{Name: "Tiếng Anh A1"})
	require.NoError(t, err)
	doc, err := svc.CreateDocument(ctx, &dto.CreateDocumentRequest{
		Title:     "Bài 1",
		ProgramId: &program.Id,
	}, uuid.New())
	require.NoError(t, err)

	userId := seedUser(t, db, "reader@example.com", nil)
	require.NoError(t, svc.TrackDocumentClick(ctx, userId, doc.Id, "127.0.0.1", "test-agent"))

	var count int64
	require.NoError(t, db.Model(&model.Activity{}).
		Where("user_id = ? AND type = ?", userId, ActivityDocumentClick).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTrackDocumentClickUnknownDocument(t *testing.T) {
	svc, db := newContentFixture(t)
	ctx := context.Background()

	userId := seedUser(t, db, "reader@example.com", nil)
	err := svc.TrackDocumentClick(ctx, userId, uuid.New(), "127.0.0.1", "test-agent")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
