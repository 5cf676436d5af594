// Package services contains domain business logic.
package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
)

// Resolver canonicalizes raw surface names into stable identity keys.
// Normalize is total and idempotent: it never fails, and normalizing an
// already-normalized value is a no-op.
type Resolver struct {
	fold transform.Transformer
}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		// NFD + strip combining marks + NFC folds diacritics:
		// "São Paulo" -> "Sao Paulo".
		fold: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

// Normalize lowercases, strips punctuation and diacritics, folds trailing
// possessive and plural suffixes, and collapses whitespace.
func (r *Resolver) Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(r.fold, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_' || c == '\t' || c == '\n':
			b.WriteByte(' ')
			// Apostrophes drop entirely so "tokyo's" becomes "tokyos"
			// before suffix folding.
		}
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return ""
	}
	last := len(words) - 1
	words[last] = foldSuffix(words[last])
	return strings.Join(words, " ")
}

// Resolve returns the stable identity key for a typed surface name.
func (r *Resolver) Resolve(t entities.MentionType, name string) entities.ResolvedKey {
	return entities.ResolvedKey{Type: t, NormalizedName: r.Normalize(name)}
}

// foldSuffix removes a trailing possessive or plural marker from a single
// lowercase word. The rule is deliberately conservative: short words and
// words ending in "ss" or "us" keep their final letter, which keeps the
// function idempotent.
func foldSuffix(word string) string {
	if strings.HasSuffix(word, "ies") && len(word) > 4 {
		return word[:len(word)-3] + "y"
	}
	if strings.HasSuffix(word, "s") && len(word) > 3 &&
		!strings.HasSuffix(word, "ss") && !strings.HasSuffix(word, "us") {
		return word[:len(word)-1]
	}
	return word
}
