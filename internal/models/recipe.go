package models

import "time"

// Recipe difficulties.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// Meal types accepted in Recipe.MealType.
const (
	MealBreakfast = "BREAKFAST"
	MealBrunch    = "BRUNCH"
	MealLunch     = "LUNCH"
	MealDinner    = "DINNER"
	MealSnack     = "SNACK"
	MealDessert   = "DESSERT"
	MealAppetizer = "APPETIZER"
	MealQuick     = "QUICK_MEAL"
)

// MealTypes lists every valid meal type.
var MealTypes = []string{
	MealBreakfast, MealBrunch, MealLunch, MealDinner,
	MealSnack, MealDessert, MealAppetizer, MealQuick,
}

// Recipe is a published or draft recipe owned by exactly one user.
type Recipe struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Title        string          `gorm:"not null" json:"title"`
	Slug         string          `gorm:"uniqueIndex;not null" json:"slug"`
	Description  *string         `gorm:"type:text" json:"description"`
	Ingredients  IngredientList  `gorm:"type:text;not null" json:"ingredients"`
	Instructions InstructionList `gorm:"type:text;not null" json:"instructions"`
	PrepTime     *int            `json:"prepTime"`
	CookTime     *int            `json:"cookTime"`
	Servings     *int            `json:"servings"`
	Difficulty   string          `gorm:"size:16;not null;default:MEDIUM" json:"difficulty"`
	Thumbnail    *string         `json:"thumbnail"`
	Images       StringList      `gorm:"type:text" json:"images"`
	VideoURL     *string         `json:"videoUrl"`
	VideoEmbedID *string         `json:"videoEmbedId"`
	Cuisine      *string         `json:"cuisine"`
	MealType     StringList      `gorm:"type:text" json:"mealType"`
	DietaryTags  StringList      `gorm:"type:text" json:"dietaryTags"`
	ViewCount    int64           `gorm:"not null;default:0" json:"viewCount"`
	LikeCount    int64           `gorm:"not null;default:0" json:"likeCount"`
	CommentCount int64           `gorm:"not null;default:0" json:"commentCount"`
	Published    bool            `gorm:"not null;default:false;index" json:"published"`
	Featured     bool            `gorm:"not null;default:false" json:"featured"`
	PublishedAt  *time.Time      `json:"publishedAt"`
	UserID       uint            `gorm:"not null;index" json:"userId"`
	User         *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CategoryID   *uint           `gorm:"index" json:"categoryId"`
	Category     *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category"`
	Comments     []Comment       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt    time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	// Counts is filled on detail reads
	Counts *RecipeCounts `gorm:"-" json:"_count,omitempty"`
	// SavedAt is set when listing a user's saved recipes
	SavedAt *time.Time `gorm:"-" json:"savedAt,omitempty"`
}

// RecipeDetail is a recipe as returned by a detail read: comments are always present.
type RecipeDetail struct {
	*Recipe
	Comments []Comment `json:"comments"`
}

// RecipeCounts are live aggregates over a recipe's child rows.
type RecipeCounts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	SavedBy  int64 `json:"savedBy"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// RecipePage is a page of recipe summaries.
type RecipePage struct {
	Recipes    []Recipe   `json:"recipes"`
	Pagination Pagination `json:"pagination"`
}
