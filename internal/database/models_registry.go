package database

import "recipebox/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// ordered so referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Recipe{},
		&models.Like{},
		&models.SavedRecipe{},
		&models.Comment{},
		&models.Follow{},
		&models.Ad{},
		&models.AdSpace{},
	}
}
