package seed

import (
	"context"
	"io"
	"os"
	"testing"

	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/service"
	"recipebox/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	service.PasswordHashCost = bcrypt.MinCost
	middleware.Logger = middleware.NewLogger("test", io.Discard)
	os.Exit(m.Run())
}

func count(t *testing.T, db *gorm.DB, model interface{}, where ...interface{}) int64 {
	t.Helper()
	q := db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	var n int64
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestSeed_ShowcaseAndDemoContent(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	sum, err := Seed(ctx, db, Options{NumUsers: 4, NumRecipes: 6, RandSeed: 42})
	require.NoError(t, err)

	fx, err := DefaultFixtures()
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Users)
	assert.Equal(t, 6+len(fx.Showcase.Recipes), sum.Recipes)
	assert.EqualValues(t, 4+len(fx.Showcase.Users), count(t, db, &models.User{}))
	assert.EqualValues(t, sum.Recipes, count(t, db, &models.Recipe{}))
	assert.EqualValues(t, sum.Likes, count(t, db, &models.Like{}))
	assert.EqualValues(t, sum.Saves, count(t, db, &models.SavedRecipe{}))
	assert.EqualValues(t, sum.Comments, count(t, db, &models.Comment{}))
	assert.EqualValues(t, sum.Follows, count(t, db, &models.Follow{}))
	assert.Zero(t, count(t, db, &models.Follow{}, "follower_id = following_id"))

	var pancakes models.Recipe
	require.NoError(t, db.Where("slug = ?", "fluffy-pancakes").First(&pancakes).Error)
	assert.Equal(t, "Fluffy Pancakes", pancakes.Title)
	assert.True(t, pancakes.Published)
	assert.True(t, pancakes.Featured)
	assert.NotNil(t, pancakes.PublishedAt)
	assert.Len(t, pancakes.Ingredients, 8)
	assert.Equal(t, models.StringList{models.MealBreakfast}, pancakes.MealType)
	require.NotNil(t, pancakes.CategoryID)

	var chef models.User
	require.NoError(t, db.Where("email = ?", "chef@recipebox.dev").First(&chef).Error)
	assert.Equal(t, chef.ID, pancakes.UserID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(chef.Password), []byte(DemoPassword)))
}

func TestSeed_CountersMatchRows(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := Seed(context.Background(), db, Options{NumUsers: 5, NumRecipes: 8, RandSeed: 7})
	require.NoError(t, err)

	var recipes []models.Recipe
	require.NoError(t, db.Find(&recipes).Error)
	require.NotEmpty(t, recipes)
	for _, r := range recipes {
		assert.Equal(t, count(t, db, &models.Like{}, "recipe_id = ?", r.ID), r.LikeCount, "likes of %s", r.Slug)
		assert.Equal(t, count(t, db, &models.Comment{}, "recipe_id = ?", r.ID), r.CommentCount, "comments of %s", r.Slug)
		if !r.Published {
			assert.Zero(t, r.LikeCount)
			assert.Nil(t, r.PublishedAt)
		}
	}

	// Every reply hangs off a top-level comment of the same recipe
	var replies []models.Comment
	require.NoError(t, db.Where("parent_id IS NOT NULL").Find(&replies).Error)
	for _, reply := range replies {
		var parent models.Comment
		require.NoError(t, db.First(&parent, *reply.ParentID).Error)
		assert.Nil(t, parent.ParentID)
		assert.Equal(t, reply.RecipeID, parent.RecipeID)
	}
}

func TestSeed_RerunKeepsShowcaseUnique(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	opts := Options{NumUsers: 2, NumRecipes: 2, RandSeed: 99}

	_, err := Seed(ctx, db, opts)
	require.NoError(t, err)
	second, err := Seed(ctx, db, opts)
	require.NoError(t, err)

	fx, err := DefaultFixtures()
	require.NoError(t, err)
	// Showcase rows are reused; only fake content is added again
	assert.Equal(t, 2, second.Recipes)
	assert.EqualValues(t, 1, count(t, db, &models.Recipe{}, "slug = ?", "fluffy-pancakes"))
	assert.EqualValues(t, 2*2+len(fx.Showcase.Users), count(t, db, &models.User{}))
	assert.EqualValues(t, len(fx.Categories), count(t, db, &models.Category{}))
}

func TestSeed_CleanStartsOver(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := Seed(ctx, db, Options{NumUsers: 3, NumRecipes: 4, RandSeed: 1})
	require.NoError(t, err)
	sum, err := Seed(ctx, db, Options{NumUsers: 1, NumRecipes: 1, RandSeed: 2, ShouldClean: true})
	require.NoError(t, err)

	fx, err := DefaultFixtures()
	require.NoError(t, err)
	assert.EqualValues(t, 1+len(fx.Showcase.Users), count(t, db, &models.User{}))
	assert.EqualValues(t, sum.Recipes, count(t, db, &models.Recipe{}))
	assert.EqualValues(t, len(fx.AdSpaces), count(t, db, &models.AdSpace{}))
}

func TestSeed_ShowcaseOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, Clean(context.Background(), db))

	sum, err := Seed(context.Background(), db, Options{RandSeed: 3})
	require.NoError(t, err)
	assert.Zero(t, sum.Users)
	assert.Zero(t, count(t, db, &models.Recipe{}, "slug NOT IN ?", []string{"fluffy-pancakes", "tamago-sando", "shakshuka"}))
}
