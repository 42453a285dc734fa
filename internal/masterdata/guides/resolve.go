package guides

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
)

var turkishLower = cases.Lower(language.Turkish)

// normalizeName lowercases with Turkish casing rules (dotted/dotless I) and
// collapses interior whitespace, so "MEHMET  Yılmaz" matches "mehmet yılmaz".
func normalizeName(name string) string {
	return strings.Join(strings.Fields(turkishLower.String(name)), " ")
}

// ResolveByName finds the guide registry row matching a free-text name, for
// linking a login account to an existing guide. Exact normalized match wins;
// a single substring match is accepted as fallback. Ambiguous substring
// matches are rejected rather than guessed.
func (s *Service) ResolveByName(ctx context.Context, name string) (Guide, error) {
	needle := normalizeName(name)
	if needle == "" {
		return Guide{}, fmt.Errorf("%w: guide name is required", httpx.ErrValidation)
	}

	all, err := s.repo.ListAllActive(ctx)
	if err != nil {
		return Guide{}, err
	}

	var partial []Guide
	for _, g := range all {
		haystack := normalizeName(g.FullName)
		if haystack == needle {
			return g, nil
		}
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			partial = append(partial, g)
		}
	}

	switch len(partial) {
	case 1:
		return partial[0], nil
	case 0:
		return Guide{}, httpx.ErrNotFound
	default:
		return Guide{}, fmt.Errorf("%w: guide name %q matches multiple registry entries", httpx.ErrValidation, name)
	}
}
