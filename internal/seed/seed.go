package seed

import (
	"context"
	"fmt"
	"log/slog"

	"recipebox/internal/middleware"
	"recipebox/internal/models"

	"gorm.io/gorm"
)

// Options configures a demo seeding run.
type Options struct {
	NumUsers    int
	NumRecipes  int
	ShouldClean bool
	// RandSeed makes the generated content reproducible; 0 picks one from the clock.
	RandSeed int64
}

// DefaultOptions is what cmd/seed uses when no flags are given.
func DefaultOptions() Options {
	return Options{NumUsers: 10, NumRecipes: 30}
}

// Summary counts what a seeding run created.
type Summary struct {
	Users    int
	Recipes  int
	Likes    int
	Saves    int
	Comments int
	Follows  int
}

// Seed upserts the built-ins and fills the database with demo content:
// the showcase accounts and recipes followed by fake users and recipes
// with likes, saves, comments and follows.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	log := middleware.Logger.With(slog.String("component", "seed"))
	log.Info("starting database seed", slog.Int("users", opts.NumUsers), slog.Int("recipes", opts.NumRecipes))

	if opts.ShouldClean {
		if err := Clean(ctx, db); err != nil {
			return nil, err
		}
		log.Info("existing data cleared")
	}

	fx, err := DefaultFixtures()
	if err != nil {
		return nil, err
	}
	if err := BuiltIns(ctx, db, fx); err != nil {
		return nil, fmt.Errorf("failed to seed built-ins: %w", err)
	}
	log.Info("built-ins upserted", slog.Int("categories", len(fx.Categories)), slog.Int("ad_spaces", len(fx.AdSpaces)))

	f, err := NewFactory(db, opts.RandSeed)
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := db.WithContext(ctx).Order("display_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	bySlug := make(map[string]*models.Category, len(categories))
	for i := range categories {
		bySlug[categories[i].Slug] = &categories[i]
	}

	sum := &Summary{}
	users, recipes, err := seedShowcase(ctx, f, fx.Showcase, bySlug, sum)
	if err != nil {
		return nil, err
	}

	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, u)
		sum.Users++
	}
	log.Info("users ready", slog.Int("created", sum.Users), slog.Int("total", len(users)))
	if len(users) == 0 {
		return sum, nil
	}

	for i := 0; i < opts.NumRecipes; i++ {
		owner := users[f.Between(0, len(users)-1)]
		var category *models.Category
		if len(categories) > 0 {
			category = &categories[f.Between(0, len(categories)-1)]
		}
		r, err := f.CreateRecipe(ctx, owner, category)
		if err != nil {
			return nil, fmt.Errorf("failed to create recipes: %w", err)
		}
		recipes = append(recipes, r)
		sum.Recipes++
	}
	log.Info("recipes ready", slog.Int("created", sum.Recipes))

	if err := seedEngagement(ctx, f, users, recipes, sum); err != nil {
		return nil, err
	}

	log.Info("database seed completed",
		slog.Int("likes", sum.Likes),
		slog.Int("saves", sum.Saves),
		slog.Int("comments", sum.Comments),
		slog.Int("follows", sum.Follows),
	)
	return sum, nil
}

func seedShowcase(ctx context.Context, f *Factory, sc Showcase, categories map[string]*models.Category, sum *Summary) ([]*models.User, []*models.Recipe, error) {
	owners := make(map[string]*models.User, len(sc.Users))
	users := make([]*models.User, 0, len(sc.Users))
	for _, su := range sc.Users {
		u, err := f.EnsureShowcaseUser(ctx, su)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create showcase user %s: %w", su.Username, err)
		}
		owners[su.Username] = u
		users = append(users, u)
	}

	recipes := make([]*models.Recipe, 0, len(sc.Recipes))
	for _, sr := range sc.Recipes {
		r, created, err := f.EnsureShowcaseRecipe(ctx, sr, owners[sr.Owner], categories[sr.Category])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create showcase recipe %s: %w", sr.Slug, err)
		}
		if created {
			recipes = append(recipes, r)
			sum.Recipes++
		}
	}
	return users, recipes, nil
}

// seedEngagement only touches published recipes, as the API would.
func seedEngagement(ctx context.Context, f *Factory, users []*models.User, recipes []*models.Recipe, sum *Summary) error {
	for _, r := range recipes {
		if !r.Published {
			continue
		}
		for _, i := range f.Pick(len(users), f.Between(0, len(users))) {
			if err := f.Like(ctx, users[i], r); err != nil {
				return fmt.Errorf("failed to like recipe %d: %w", r.ID, err)
			}
			sum.Likes++
		}
		for _, i := range f.Pick(len(users), f.Between(0, len(users)/2)) {
			if err := f.Save(ctx, users[i], r); err != nil {
				return fmt.Errorf("failed to save recipe %d: %w", r.ID, err)
			}
			sum.Saves++
		}
		for n := f.Between(0, 3); n > 0; n-- {
			author := users[f.Between(0, len(users)-1)]
			top, err := f.Comment(ctx, author, r, nil)
			if err != nil {
				return fmt.Errorf("failed to comment on recipe %d: %w", r.ID, err)
			}
			sum.Comments++
			if f.Between(0, 2) == 0 {
				replier := users[f.Between(0, len(users)-1)]
				if _, err := f.Comment(ctx, replier, r, top); err != nil {
					return fmt.Errorf("failed to reply on recipe %d: %w", r.ID, err)
				}
				sum.Comments++
			}
		}
	}

	for _, u := range users {
		for _, i := range f.Pick(len(users), f.Between(0, 3)) {
			if users[i].ID == u.ID {
				continue
			}
			if err := f.Follow(ctx, u, users[i]); err != nil {
				return fmt.Errorf("failed to follow user %d: %w", users[i].ID, err)
			}
			sum.Follows++
		}
	}
	return nil
}

// Clean removes all content rows, children first.
func Clean(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	// Replies before their parents
	if err := tx.Where("parent_id IS NOT NULL").Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("failed to clear replies: %w", err)
	}
	for _, table := range []interface{}{
		&models.Comment{},
		&models.Like{},
		&models.SavedRecipe{},
		&models.Follow{},
		&models.Recipe{},
		&models.AdSpace{},
		&models.Ad{},
		&models.Category{},
		&models.User{},
	} {
		if err := tx.Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", table, err)
		}
	}
	return nil
}
