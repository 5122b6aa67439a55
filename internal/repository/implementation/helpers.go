package implementation

import (
	"lingodocs-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecs(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
