package common

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds derived slugs so suffixed candidates still fit the column.
const MaxSlugLength = 64

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a URL-safe slug from input, falling back to fallback when
// input has no usable characters. The result is stable for the same input and
// Slugify(Slugify(x)) == Slugify(x).
func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

// WithSuffix returns the n-th collision candidate for base ("tiger-dojo-2").
func WithSuffix(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}

func slugify(s string) string {
	folded, _, err := transform.String(foldAccents(), strings.TrimSpace(s))
	if err != nil {
		folded = s
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// foldAccents strips combining marks so "Académie" slugs as "academie".
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
