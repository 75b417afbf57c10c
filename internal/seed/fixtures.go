package seed

import (
	_ "embed"
	"fmt"
	"slices"

	"recipebox/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yml
var fixturesYAML []byte

// Fixtures is the content every environment starts with.
type Fixtures struct {
	Categories []CategoryFixture `yaml:"categories"`
	AdSpaces   []AdSpaceFixture  `yaml:"ad_spaces"`
	Showcase   Showcase          `yaml:"showcase"`
}

// CategoryFixture is a built-in category.
type CategoryFixture struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Order       int    `yaml:"order"`
}

// AdSpaceFixture is a built-in ad placement.
type AdSpaceFixture struct {
	Name        string             `yaml:"name"`
	Slug        string             `yaml:"slug"`
	Description string             `yaml:"description"`
	Location    string             `yaml:"location"`
	Order       int                `yaml:"order"`
	Dimensions  []models.Dimension `yaml:"dimensions"`
}

// Showcase holds the hand-written demo accounts and recipes.
type Showcase struct {
	Users   []ShowcaseUser   `yaml:"users"`
	Recipes []ShowcaseRecipe `yaml:"recipes"`
}

// ShowcaseUser is a demo account. Its password is DemoPassword.
type ShowcaseUser struct {
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Bio      string `yaml:"bio"`
}

// ShowcaseRecipe is a demo recipe owned by a showcase user.
type ShowcaseRecipe struct {
	Title        string              `yaml:"title"`
	Slug         string              `yaml:"slug"`
	Owner        string              `yaml:"owner"`
	Category     string              `yaml:"category"`
	Description  string              `yaml:"description"`
	Cuisine      string              `yaml:"cuisine"`
	Difficulty   string              `yaml:"difficulty"`
	PrepTime     int                 `yaml:"prep_time"`
	CookTime     int                 `yaml:"cook_time"`
	Servings     int                 `yaml:"servings"`
	Featured     bool                `yaml:"featured"`
	MealType     []string            `yaml:"meal_type"`
	DietaryTags  []string            `yaml:"dietary_tags"`
	VideoEmbedID string              `yaml:"video_embed_id"`
	Ingredients  []models.Ingredient `yaml:"ingredients"`
	Instructions []string            `yaml:"instructions"`
}

// DefaultFixtures parses the embedded fixture file.
func DefaultFixtures() (*Fixtures, error) {
	return LoadFixtures(fixturesYAML)
}

// LoadFixtures parses and checks a fixture document.
func LoadFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixtures) validate() error {
	categories := make(map[string]bool, len(fx.Categories))
	for _, c := range fx.Categories {
		if c.Name == "" || c.Slug == "" {
			return fmt.Errorf("category %q: name and slug are required", c.Slug)
		}
		if categories[c.Slug] {
			return fmt.Errorf("duplicate category slug %q", c.Slug)
		}
		categories[c.Slug] = true
	}

	spaces := make(map[string]bool, len(fx.AdSpaces))
	for _, s := range fx.AdSpaces {
		if s.Name == "" || s.Slug == "" {
			return fmt.Errorf("ad space %q: name and slug are required", s.Slug)
		}
		if spaces[s.Slug] {
			return fmt.Errorf("duplicate ad space slug %q", s.Slug)
		}
		if !slices.Contains(models.AdLocations, s.Location) {
			return fmt.Errorf("ad space %q: unknown location %q", s.Slug, s.Location)
		}
		spaces[s.Slug] = true
	}

	owners := make(map[string]bool, len(fx.Showcase.Users))
	for _, u := range fx.Showcase.Users {
		if u.Username == "" || u.Email == "" {
			return fmt.Errorf("showcase user %q: username and email are required", u.Name)
		}
		owners[u.Username] = true
	}
	for _, r := range fx.Showcase.Recipes {
		if r.Title == "" || r.Slug == "" {
			return fmt.Errorf("showcase recipe %q: title and slug are required", r.Title)
		}
		if !owners[r.Owner] {
			return fmt.Errorf("showcase recipe %q: unknown owner %q", r.Slug, r.Owner)
		}
		if r.Category != "" && !categories[r.Category] {
			return fmt.Errorf("showcase recipe %q: unknown category %q", r.Slug, r.Category)
		}
		if len(r.Ingredients) == 0 || len(r.Instructions) == 0 {
			return fmt.Errorf("showcase recipe %q: ingredients and instructions are required", r.Slug)
		}
	}
	return nil
}
