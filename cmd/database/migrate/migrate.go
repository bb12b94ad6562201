package migration

import (
	"fmt"

	"foodgram/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	}

	if err := db.SetupJoinTable(&entities.Recipe{}, "Tags", &entities.RecipeTag{}); err != nil {
		return fmt.Errorf("setup recipe tags join table: %w", err)
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"subscription", &entities.Subscription{}},
		{"ingredient", &entities.Ingredient{}},
		{"tag", &entities.Tag{}},
		{"recipe", &entities.Recipe{}},
		{"recipe ingredient", &entities.RecipeIngredient{}},
		{"recipe tag", &entities.RecipeTag{}},
		{"favorite", &entities.Favorite{}},
		{"shopping cart", &entities.ShoppingCartEntry{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s database: %w", m.name, err)
		}
	}

	return nil
}
