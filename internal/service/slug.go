package service

import (
	"context"
	"errors"
	"fmt"

	"dojo.app/platform/common"
	"dojo.app/platform/internal/store"
)

// MaxSlugAttempts is the number of numeric suffixes tried after the base slug.
const MaxSlugAttempts = 100

// slugTaken reports whether a candidate slug is already used within one scope.
type slugTaken func(ctx context.Context, slug string) (bool, error)

// SlugGenerator derives unique slugs for organizations (global scope) and
// schools (scoped to one organization). Bind it to tx stores when the
// result is written in the same transaction.
type SlugGenerator struct {
	orgs    store.OrganizationStore
	schools store.SchoolStore
}

func NewSlugGenerator(orgs store.OrganizationStore, schools store.SchoolStore) *SlugGenerator {
	return &SlugGenerator{orgs: orgs, schools: schools}
}

func (g *SlugGenerator) OrganizationSlug(ctx context.Context, name string) (string, error) {
	return uniqueSlug(ctx, name, "organization", func(ctx context.Context, slug string) (bool, error) {
		return exists(g.orgs.GetBySlug(ctx, slug))
	})
}

func (g *SlugGenerator) SchoolSlug(ctx context.Context, orgID int64, name string) (string, error) {
	return uniqueSlug(ctx, name, "school", func(ctx context.Context, slug string) (bool, error) {
		return exists(g.schools.GetByOrgAndSlug(ctx, orgID, slug))
	})
}

func uniqueSlug(ctx context.Context, name, fallback string, taken slugTaken) (string, error) {
	base, err := common.Slugify(name, fallback)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}

	for i := 0; i <= MaxSlugAttempts; i++ {
		candidate := base
		if i > 0 {
			candidate = common.WithSuffix(base, i)
		}
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug availability: %w", err)
		}
		if !used {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %q after %d attempts", ErrSlugExhausted, base, MaxSlugAttempts)
}

func exists[T any](_ T, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, err
}
