package service

import (
	"context"
	"errors"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Fluffy Pancakes", "fluffy-pancakes"},
		{"  Mom's   Best -- Chili!  ", "moms-best-chili"},
		{"snake_case_title", "snake-case-title"},
		{"Crème Brûlée", "crme-brle"},
		{"---", ""},
		{"!!!", ""},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestClaimSlug(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("appends numeric suffix", func(t *testing.T) {
		taken := map[string]bool{"fluffy-pancakes": true, "fluffy-pancakes-1": true}
		var got string
		err := claimSlug(ctx, "fluffy-pancakes",
			func(_ context.Context, s string) (bool, error) { return taken[s], nil },
			func(s string) error { got = s; return nil })
		require.NoError(t, err)
		assert.Equal(t, "fluffy-pancakes-2", got)
	})

	t.Run("empty base falls back", func(t *testing.T) {
		var got string
		err := claimSlug(ctx, "",
			func(_ context.Context, _ string) (bool, error) { return false, nil },
			func(s string) error { got = s; return nil })
		require.NoError(t, err)
		assert.Equal(t, "recipe", got)
	})

	t.Run("lost race moves to next candidate", func(t *testing.T) {
		calls := 0
		var got string
		err := claimSlug(ctx, "stew",
			func(_ context.Context, _ string) (bool, error) { return false, nil },
			func(s string) error {
				calls++
				if calls == 1 {
					return models.NewConflictError("Recipe slug already exists")
				}
				got = s
				return nil
			})
		require.NoError(t, err)
		assert.Equal(t, "stew-1", got)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		checks := 0
		err := claimSlug(ctx, "soup",
			func(_ context.Context, _ string) (bool, error) { checks++; return true, nil },
			func(string) error { t.Fatal("create must not be called"); return nil })
		assert.Equal(t, models.CodeConflict, models.AsAppError(err).Code)
		assert.Equal(t, MaxSlugAttempts, checks)
	})

	t.Run("store error stops the search", func(t *testing.T) {
		boom := errors.New("db down")
		err := claimSlug(ctx, "soup",
			func(_ context.Context, _ string) (bool, error) { return false, boom },
			func(string) error { return nil })
		assert.ErrorIs(t, err, boom)
	})
}
