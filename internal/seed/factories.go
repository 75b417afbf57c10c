// Package seed loads built-in fixtures and generates demo content for
// development databases.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "Password123!"

var (
	cuisines = []string{
		"American", "Italian", "Mexican", "Japanese", "Thai", "Indian",
		"French", "Greek", "Middle Eastern", "Korean", "Spanish", "Vietnamese",
	}
	difficulties = []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	dietaryTags  = []string{"vegetarian", "vegan", "gluten-free", "dairy-free", "low-carb", "high-protein"}
	units        = []string{"g", "ml", "cup", "tbsp", "tsp", "pcs"}

	// mealTypesByCategory maps a built-in category to the meal types its recipes carry.
	mealTypesByCategory = map[string][]string{
		"breakfast":   {models.MealBreakfast},
		"brunch":      {models.MealBrunch, models.MealBreakfast},
		"lunch":       {models.MealLunch},
		"dinner":      {models.MealDinner},
		"quick-meals": {models.MealQuick, models.MealLunch},
		"appetizers":  {models.MealAppetizer},
		"desserts":    {models.MealDessert},
		"snacks":      {models.MealSnack},
	}
)

// Factory builds demo entities and persists them through the repositories,
// so likes, saves and comments move the recipe counters the same way the API does.
type Factory struct {
	db           *gorm.DB
	faker        *gofakeit.Faker
	passwordHash string
	maxDays      int

	users      repository.UserRepository
	recipes    repository.RecipeRepository
	engagement repository.EngagementRepository
	comments   repository.CommentRepository
}

// NewFactory creates a Factory. The same randSeed yields the same content.
func NewFactory(db *gorm.DB, randSeed int64) (*Factory, error) {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), service.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	return &Factory{
		db:           db,
		faker:        gofakeit.New(randSeed),
		passwordHash: string(hash),
		maxDays:      90,
		users:        repository.NewUserRepository(db),
		recipes:      repository.NewRecipeRepository(db),
		engagement:   repository.NewEngagementRepository(db),
		comments:     repository.NewCommentRepository(db),
	}, nil
}

// CreateUser inserts a fake account with a free username and email.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	username, err := f.freeUsername(ctx, strings.ToLower(first+last))
	if err != nil {
		return nil, err
	}
	name := first + " " + last
	bio := f.faker.Sentence(10)
	user := &models.User{
		Name:     &name,
		Username: &username,
		Email:    username + "@example.com",
		Password: f.passwordHash,
		Bio:      &bio,
		Role:     models.RoleCreator,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureShowcaseUser returns the showcase account, creating it on first use.
func (f *Factory) EnsureShowcaseUser(ctx context.Context, su ShowcaseUser) (*models.User, error) {
	existing, err := f.users.GetByEmail(ctx, su.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	name, username, bio := su.Name, su.Username, su.Bio
	user := &models.User{
		Name:     &name,
		Username: &username,
		Email:    su.Email,
		Password: f.passwordHash,
		Bio:      optional(bio),
		Role:     models.RoleCreator,
	}
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildRecipe fills a published recipe for owner in category without saving it.
func (f *Factory) BuildRecipe(owner *models.User, category *models.Category) *models.Recipe {
	title := f.dishName(category)
	description := f.faker.Sentence(14)
	cuisine := f.faker.RandomString(cuisines)
	prep, cook, servings := f.faker.Number(5, 45), f.faker.Number(0, 120), f.faker.Number(1, 8)
	createdAt := f.pastInstant()

	recipe := &models.Recipe{
		Title:        title,
		Description:  &description,
		Ingredients:  f.ingredients(),
		Instructions: f.instructions(),
		PrepTime:     &prep,
		CookTime:     &cook,
		Servings:     &servings,
		Difficulty:   f.faker.RandomString(difficulties),
		Cuisine:      &cuisine,
		MealType:     models.StringList{},
		DietaryTags:  models.StringList{},
		Images:       models.StringList{},
		Published:    f.faker.Number(1, 10) > 1,
		Featured:     f.faker.Number(1, 10) == 1,
		UserID:       owner.ID,
		CreatedAt:    createdAt,
	}
	thumb := fmt.Sprintf("https://picsum.photos/seed/%s/640/360", f.faker.UUID())
	recipe.Thumbnail = &thumb
	if f.faker.Bool() {
		recipe.DietaryTags = models.StringList{f.faker.RandomString(dietaryTags)}
	}
	if category != nil {
		recipe.CategoryID = &category.ID
		recipe.MealType = append(models.StringList{}, mealTypesByCategory[category.Slug]...)
	}
	if recipe.Published {
		publishedAt := createdAt
		recipe.PublishedAt = &publishedAt
	}
	return recipe
}

// CreateRecipe persists a built recipe under the first free slug derived from its title.
func (f *Factory) CreateRecipe(ctx context.Context, owner *models.User, category *models.Category, overrides ...func(*models.Recipe)) (*models.Recipe, error) {
	recipe := f.BuildRecipe(owner, category)
	for _, override := range overrides {
		override(recipe)
	}
	if recipe.Slug == "" {
		slug, err := f.freeSlug(ctx, service.Slugify(recipe.Title))
		if err != nil {
			return nil, err
		}
		recipe.Slug = slug
	}
	if err := f.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// EnsureShowcaseRecipe creates the showcase recipe unless its slug is already taken.
func (f *Factory) EnsureShowcaseRecipe(ctx context.Context, sr ShowcaseRecipe, owner *models.User, category *models.Category) (*models.Recipe, bool, error) {
	exists, err := f.recipes.SlugExists(ctx, sr.Slug)
	if err != nil || exists {
		return nil, false, err
	}

	now := time.Now().UTC()
	recipe := &models.Recipe{
		Title:        sr.Title,
		Slug:         sr.Slug,
		Description:  optional(sr.Description),
		Ingredients:  models.IngredientList(sr.Ingredients),
		Instructions: models.InstructionList(sr.Instructions),
		PrepTime:     positive(sr.PrepTime),
		CookTime:     positive(sr.CookTime),
		Servings:     positive(sr.Servings),
		Difficulty:   sr.Difficulty,
		Cuisine:      optional(sr.Cuisine),
		MealType:     models.StringList(sr.MealType),
		DietaryTags:  models.StringList(sr.DietaryTags),
		Images:       models.StringList{},
		Published:    true,
		Featured:     sr.Featured,
		PublishedAt:  &now,
		UserID:       owner.ID,
	}
	if recipe.Difficulty == "" {
		recipe.Difficulty = models.DifficultyMedium
	}
	if recipe.MealType == nil {
		recipe.MealType = models.StringList{}
	}
	if recipe.DietaryTags == nil {
		recipe.DietaryTags = models.StringList{}
	}
	thumb := "https://placehold.co/640x360/0fb36a/ffffff?text=" + strings.ReplaceAll(sr.Title, " ", "+")
	recipe.Thumbnail = &thumb
	if sr.VideoEmbedID != "" {
		url := "https://www.youtube.com/watch?v=" + sr.VideoEmbedID
		recipe.VideoURL = &url
		recipe.VideoEmbedID = optional(sr.VideoEmbedID)
	}
	if category != nil {
		recipe.CategoryID = &category.ID
	}

	if err := f.recipes.Create(ctx, recipe); err != nil {
		return nil, false, err
	}
	return recipe, true, nil
}

// Like records user liking recipe, leaving an existing like in place.
func (f *Factory) Like(ctx context.Context, user *models.User, recipe *models.Recipe) error {
	return f.ensureOn(ctx, &models.Like{}, "user_id = ? AND recipe_id = ?", []interface{}{user.ID, recipe.ID}, func() (bool, error) {
		return f.engagement.ToggleLike(ctx, user.ID, recipe.ID)
	})
}

// Save bookmarks recipe for user, leaving an existing bookmark in place.
func (f *Factory) Save(ctx context.Context, user *models.User, recipe *models.Recipe) error {
	return f.ensureOn(ctx, &models.SavedRecipe{}, "user_id = ? AND recipe_id = ?", []interface{}{user.ID, recipe.ID}, func() (bool, error) {
		return f.engagement.ToggleSave(ctx, user.ID, recipe.ID)
	})
}

// Follow makes follower follow following, leaving an existing edge in place.
func (f *Factory) Follow(ctx context.Context, follower, following *models.User) error {
	if follower.ID == following.ID {
		return nil
	}
	return f.ensureOn(ctx, &models.Follow{}, "follower_id = ? AND following_id = ?", []interface{}{follower.ID, following.ID}, func() (bool, error) {
		return f.engagement.ToggleFollow(ctx, follower.ID, following.ID)
	})
}

// Comment posts a fake comment on recipe, as a reply when parent is set.
func (f *Factory) Comment(ctx context.Context, user *models.User, recipe *models.Recipe, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  f.faker.Sentence(f.faker.Number(4, 16)),
		RecipeID: recipe.ID,
		UserID:   user.ID,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := f.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Pick returns k distinct indexes out of [0, n).
func (f *Factory) Pick(n, k int) []int {
	if k > n {
		k = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	f.faker.ShuffleInts(idx)
	return idx[:k]
}

// Between returns a random int in [lo, hi].
func (f *Factory) Between(lo, hi int) int {
	return f.faker.Number(lo, hi)
}

func (f *Factory) ensureOn(ctx context.Context, row interface{}, where string, args []interface{}, toggle func() (bool, error)) error {
	var n int64
	if err := f.db.WithContext(ctx).Model(row).Where(where, args...).Count(&n).Error; err != nil {
		return models.NewInternalError(err)
	}
	if n > 0 {
		return nil
	}
	_, err := toggle()
	return err
}

func (f *Factory) freeUsername(ctx context.Context, base string) (string, error) {
	base = service.Slugify(base)
	base = strings.ReplaceAll(base, "-", "")
	if base == "" {
		base = "cook"
	}
	for attempt := 0; attempt < service.MaxSlugAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s%d", base, attempt)
		}
		var n int64
		err := f.db.WithContext(ctx).Model(&models.User{}).
			Where("username = ? OR email = ?", candidate, candidate+"@example.com").
			Count(&n).Error
		if err != nil {
			return "", models.NewInternalError(err)
		}
		if n == 0 {
			return candidate, nil
		}
	}
	return "", models.NewConflictError("Could not find a free username for " + base)
}

func (f *Factory) freeSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "recipe"
	}
	for attempt := 0; attempt < service.MaxSlugAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}
		taken, err := f.recipes.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", models.NewConflictError("Could not generate a unique slug")
}

func (f *Factory) dishName(category *models.Category) string {
	slug := ""
	if category != nil {
		slug = category.Slug
	}
	switch slug {
	case "breakfast", "brunch":
		return f.faker.Breakfast()
	case "lunch", "quick-meals":
		return f.faker.Lunch()
	case "desserts":
		return f.faker.Dessert()
	case "snacks", "appetizers":
		return f.faker.Snack()
	default:
		return f.faker.Dinner()
	}
}

func (f *Factory) ingredients() models.IngredientList {
	n := f.faker.Number(3, 8)
	list := make(models.IngredientList, 0, n)
	for i := 0; i < n; i++ {
		item := f.faker.Vegetable()
		if f.faker.Bool() {
			item = f.faker.Fruit()
		}
		list = append(list, models.Ingredient{
			Item:   item,
			Amount: fmt.Sprint(f.faker.Number(1, 500)),
			Unit:   f.faker.RandomString(units),
		})
	}
	return list
}

func (f *Factory) instructions() models.InstructionList {
	n := f.faker.Number(3, 7)
	steps := make(models.InstructionList, 0, n)
	for i := 0; i < n; i++ {
		steps = append(steps, f.faker.Sentence(f.faker.Number(5, 12)))
	}
	return steps
}

// pastInstant spreads creation times over the last maxDays days.
func (f *Factory) pastInstant() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays-1))*24*time.Hour +
		time.Duration(f.faker.Number(0, 23))*time.Hour +
		time.Duration(f.faker.Number(0, 59))*time.Minute
	return time.Now().UTC().Add(-back)
}

func positive(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
