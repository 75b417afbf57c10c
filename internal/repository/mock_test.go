package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"recipebox/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID_Mock(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		expectedCode string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "email", "role"}).
					AddRow(1, "cook@example.com", models.RoleCreator)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(99, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			expectedCode: models.CodeNotFound,
		},
		{
			name:   "Database Error",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(2, 1).
					WillReturnError(errors.New("connection timeout"))
			},
			expectedCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, models.AsAppError(err).Code)
				assert.Nil(t, user)
			} else if assert.NoError(t, err) {
				assert.Equal(t, "cook@example.com", user.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEngagementRepository_ToggleLike_LocksRecipeRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "recipes" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`DELETE FROM "likes" WHERE user_id = \$1 AND recipe_id = \$2`).
		WithArgs(1, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec(`UPDATE "recipes" SET "like_count"=like_count \+ 1 WHERE id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	liked, err := repo.ToggleLike(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_ToggleLike_RollsBackOnCounterFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "recipes" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`DELETE FROM "likes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "recipes" SET "like_count"=CASE WHEN like_count > 0`).
		WillReturnError(errors.New("statement timeout"))
	mock.ExpectRollback()

	_, err := repo.ToggleLike(context.Background(), 1, 5)
	require.Error(t, err)
	assert.Equal(t, models.CodeInternal, models.AsAppError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated", gorm.ErrDuplicatedKey, true},
		{"wrapped translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"pg foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: recipes.slug"), true},
		{"other", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%pancake%`, likePattern("pancake"))
	assert.Equal(t, `%"QUICK\_MEAL"%`, likePattern(`"QUICK_MEAL"`))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
}
