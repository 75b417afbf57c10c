package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"recipebox/internal/models"
)

// MaxSlugAttempts bounds the numeric-suffix search for a free recipe slug.
const MaxSlugAttempts = 100

const fallbackSlug = "recipe"

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugSeparators   = regexp.MustCompile(`[\s_-]+`)
)

// Slugify lowercases s, strips characters outside [a-z0-9_\s-], collapses
// separator runs to a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// slugCandidate returns base for attempt 0 and base-N afterwards.
func slugCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(attempt)
}

// claimSlug tries base, base-1, base-2, ... and calls create with the first
// candidate that is free. create reporting a Conflict means another writer
// took the candidate first, and the search moves on.
func claimSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error), create func(slug string) error) error {
	if base == "" {
		base = fallbackSlug
	}
	for attempt := 0; attempt < MaxSlugAttempts; attempt++ {
		candidate := slugCandidate(base, attempt)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return err
		}
		if taken {
			continue
		}
		err = create(candidate)
		if err == nil {
			return nil
		}
		if models.AsAppError(err).Code != models.CodeConflict {
			return err
		}
	}
	return models.NewConflictError("Could not generate a unique slug for this title")
}
