package mapper

import (
	"encoding/json"

	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/model"

	"gorm.io/datatypes"
)

type ContentMapper struct{}

func NewContentMapper() *ContentMapper {
	return &ContentMapper{}
}

func (m *ContentMapper) ProgramToEntity(p *model.Program) *entity.Program {
	if p == nil {
		return nil
	}
	return &entity.Program{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		SortOrder:   p.SortOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *ContentMapper) ProgramToModel(p *entity.Program) *model.Program {
	if p == nil {
		return nil
	}
	return &model.Program{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		SortOrder:   p.SortOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *ContentMapper) ProgramsToEntities(programs []*model.Program) []*entity.Program {
	out := make([]*entity.Program, len(programs))
	for i, p := range programs {
		out[i] = m.ProgramToEntity(p)
	}
	return out
}

func (m *ContentMapper) CategoryToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}
	return &entity.Category{
		Id:          c.Id,
		ProgramId:   c.ProgramId,
		Name:        c.Name,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *ContentMapper) CategoryToModel(c *entity.Category) *model.Category {
	if c == nil {
		return nil
	}
	return &model.Category{
		Id:          c.Id,
		ProgramId:   c.ProgramId,
		Name:        c.Name,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *ContentMapper) CategoriesToEntities(categories []*model.Category) []*entity.Category {
	out := make([]*entity.Category, len(categories))
	for i, c := range categories {
		out[i] = m.CategoryToEntity(c)
	}
	return out
}

func (m *ContentMapper) DocumentToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	var links []entity.DocumentLink
	if len(d.Links) > 0 {
		_ = json.Unmarshal(d.Links, &links)
	}
	return &entity.Document{
		Id:         d.Id,
		Title:      d.Title,
		ProgramId:  d.ProgramId,
		CategoryId: d.CategoryId,
		Links:      links,
		CreatedBy:  d.CreatedBy,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (m *ContentMapper) DocumentToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	linksJSON, _ := json.Marshal(d.Links)
	return &model.Document{
		Id:         d.Id,
		Title:      d.Title,
		ProgramId:  d.ProgramId,
		CategoryId: d.CategoryId,
		Links:      datatypes.JSON(linksJSON),
		CreatedBy:  d.CreatedBy,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (m *ContentMapper) DocumentsToEntities(docs []*model.Document) []*entity.Document {
	out := make([]*entity.Document, len(docs))
	for i, d := range docs {
		out[i] = m.DocumentToEntity(d)
	}
	return out
}

func (m *ContentMapper) DocumentsToModels(docs []*entity.Document) []*model.Document {
	out := make([]*model.Document, len(docs))
	for i, d := range docs {
		out[i] = m.DocumentToModel(d)
	}
	return out
}
