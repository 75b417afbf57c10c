package validation

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"recipebox/internal/models"

	"github.com/goccy/go-json"
)

// OptionalInt is a lenient integer field: JSON numbers and numeric strings
// parse, anything else (including null) reads as no value.
type OptionalInt struct {
	Value *int
	// Set records that the key was present in the payload
	Set bool
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.Value = nil

	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		o.Value = truncInt(v)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			o.Value = &n
		} else if f, err := strconv.ParseFloat(s, 64); err == nil {
			o.Value = truncInt(f)
		}
	}
	return nil
}

func truncInt(f float64) *int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	n := int(math.Trunc(f))
	return &n
}

// IngredientInput is one submitted ingredient line.
type IngredientInput struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// InstructionStep accepts either a plain string or a {step, text} object.
type InstructionStep string

func (s *InstructionStep) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*s = InstructionStep(text)
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		*s = ""
		return nil
	}
	*s = InstructionStep(obj.Text)
	return nil
}

// RecipeInput is the authoring payload for creating or patching a recipe.
// Nil fields were not supplied.
type RecipeInput struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	Ingredients  *[]IngredientInput `json:"ingredients"`
	Instructions *[]InstructionStep `json:"instructions"`
	PrepTime     OptionalInt        `json:"prepTime"`
	CookTime     OptionalInt        `json:"cookTime"`
	Servings     OptionalInt        `json:"servings"`
	Difficulty   *string            `json:"difficulty"`
	Thumbnail    *string            `json:"thumbnail"`
	Images       *[]string          `json:"images"`
	VideoURL     *string            `json:"videoUrl"`
	VideoEmbedID *string            `json:"videoEmbedId"`
	Cuisine      *string            `json:"cuisine"`
	MealType     *[]string          `json:"mealType"`
	DietaryTags  *[]string          `json:"dietaryTags"`
	Published    *bool              `json:"published"`
	CategoryID   *uint              `json:"categoryId"`
}

// CategoryByMealType maps a meal type to the slug of the category it implies.
var CategoryByMealType = map[string]string{
	models.MealBreakfast: "breakfast",
	models.MealBrunch:    "brunch",
	models.MealLunch:     "lunch",
	models.MealDinner:    "dinner",
	models.MealQuick:     "quick-meals",
	models.MealAppetizer: "appetizers",
	models.MealDessert:   "desserts",
	models.MealSnack:     "snacks",
}

// InferCategorySlug returns the category slug implied by the first meal type, or "".
func InferCategorySlug(mealTypes []string) string {
	if len(mealTypes) == 0 {
		return ""
	}
	return CategoryByMealType[mealTypes[0]]
}

// NormalizeRecipe validates a creation payload and returns the recipe it
// describes. Slug, owner and category inference are left to the caller.
func NormalizeRecipe(in RecipeInput) (*models.Recipe, error) {
	title := trimmed(in.Title)
	if title == nil {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Ingredients == nil {
		return nil, models.NewValidationError("At least one ingredient is required")
	}
	ingredients, err := normalizeIngredients(*in.Ingredients)
	if err != nil {
		return nil, err
	}
	if in.Instructions == nil {
		return nil, models.NewValidationError("At least one instruction is required")
	}
	instructions, err := normalizeInstructions(*in.Instructions)
	if err != nil {
		return nil, err
	}

	difficulty := models.DifficultyMedium
	if d := trimmed(in.Difficulty); d != nil {
		if difficulty, err = normalizeDifficulty(*d); err != nil {
			return nil, err
		}
	}

	recipe := &models.Recipe{
		Title:        *title,
		Description:  trimmed(in.Description),
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     in.PrepTime.Value,
		CookTime:     in.CookTime.Value,
		Servings:     in.Servings.Value,
		Difficulty:   difficulty,
		Thumbnail:    trimmed(in.Thumbnail),
		VideoURL:     trimmed(in.VideoURL),
		VideoEmbedID: trimmed(in.VideoEmbedID),
		Cuisine:      trimmed(in.Cuisine),
		CategoryID:   in.CategoryID,
		Published:    in.Published != nil && *in.Published,
	}
	if in.Images != nil {
		recipe.Images = compact(*in.Images)
	}
	if in.DietaryTags != nil {
		recipe.DietaryTags = compact(*in.DietaryTags)
	}
	if in.MealType != nil {
		if recipe.MealType, err = NormalizeMealTypes(*in.MealType); err != nil {
			return nil, err
		}
	}
	return recipe, nil
}

// RecipeChanges validates a partial update and returns the column changes it
// implies. Only supplied fields appear; an empty optional string clears the
// column. "published" is included as a bool when supplied.
func RecipeChanges(in RecipeInput) (map[string]interface{}, error) {
	changes := map[string]interface{}{}

	if in.Title != nil {
		title := trimmed(in.Title)
		if title == nil {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		changes["title"] = *title
	}
	if in.Ingredients != nil {
		ingredients, err := normalizeIngredients(*in.Ingredients)
		if err != nil {
			return nil, err
		}
		changes["ingredients"] = ingredients
	}
	if in.Instructions != nil {
		instructions, err := normalizeInstructions(*in.Instructions)
		if err != nil {
			return nil, err
		}
		changes["instructions"] = instructions
	}
	if in.Difficulty != nil {
		difficulty, err := normalizeDifficulty(strings.TrimSpace(*in.Difficulty))
		if err != nil {
			return nil, err
		}
		changes["difficulty"] = difficulty
	}
	if in.MealType != nil {
		mealTypes, err := NormalizeMealTypes(*in.MealType)
		if err != nil {
			return nil, err
		}
		changes["meal_type"] = mealTypes
	}

	for column, value := range map[string]*string{
		"description":    in.Description,
		"thumbnail":      in.Thumbnail,
		"video_url":      in.VideoURL,
		"video_embed_id": in.VideoEmbedID,
		"cuisine":        in.Cuisine,
	} {
		if value != nil {
			changes[column] = trimmed(value)
		}
	}
	for column, value := range map[string]OptionalInt{
		"prep_time": in.PrepTime,
		"cook_time": in.CookTime,
		"servings":  in.Servings,
	} {
		if value.Set {
			changes[column] = value.Value
		}
	}
	if in.Images != nil {
		changes["images"] = models.StringList(compact(*in.Images))
	}
	if in.DietaryTags != nil {
		changes["dietary_tags"] = models.StringList(compact(*in.DietaryTags))
	}
	if in.CategoryID != nil {
		changes["category_id"] = *in.CategoryID
	}
	if in.Published != nil {
		changes["published"] = *in.Published
	}
	return changes, nil
}

// NormalizeMealTypes upper-cases and validates meal types, dropping blanks and duplicates.
func NormalizeMealTypes(values []string) (models.StringList, error) {
	out := models.StringList{}
	seen := map[string]bool{}
	for _, v := range values {
		mt := strings.ToUpper(strings.TrimSpace(v))
		mt = strings.NewReplacer("-", "_", " ", "_").Replace(mt)
		if mt == "" || seen[mt] {
			continue
		}
		if !isMealType(mt) {
			return nil, models.NewValidationError("Invalid meal type: " + strings.TrimSpace(v))
		}
		seen[mt] = true
		out = append(out, mt)
	}
	return out, nil
}

func isMealType(v string) bool {
	for _, mt := range models.MealTypes {
		if mt == v {
			return true
		}
	}
	return false
}

func normalizeDifficulty(v string) (string, error) {
	switch d := strings.ToUpper(v); d {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return d, nil
	default:
		return "", models.NewValidationError("Difficulty must be one of EASY, MEDIUM, HARD")
	}
}

func normalizeIngredients(in []IngredientInput) (models.IngredientList, error) {
	out := models.IngredientList{}
	for _, ing := range in {
		item := strings.TrimSpace(ing.Item)
		if item == "" {
			continue
		}
		out = append(out, models.Ingredient{
			Item:   item,
			Amount: strings.TrimSpace(ing.Amount),
			Unit:   strings.TrimSpace(ing.Unit),
		})
	}
	if len(out) == 0 {
		return nil, models.NewValidationError("At least one ingredient is required")
	}
	return out, nil
}

func normalizeInstructions(in []InstructionStep) (models.InstructionList, error) {
	out := models.InstructionList{}
	for _, step := range in {
		if s := strings.TrimSpace(string(step)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, models.NewValidationError("At least one instruction is required")
	}
	return out, nil
}

// trimmed returns nil for absent or blank strings.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func compact(values []string) []string {
	out := []string{}
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
