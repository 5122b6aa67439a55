package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByProgram struct {
	ProgramID uuid.UUID
}

func (s ByProgram) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("program_id = ?", s.ProgramID)
}

type ByCategory struct {
	CategoryID uuid.UUID
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category_id = ?", s.CategoryID)
}

// TitleContains does a case-insensitive substring match on the title column.
type TitleContains struct {
	Query string
}

func (s TitleContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title ILIKE ?", "%"+s.Query+"%")
}
