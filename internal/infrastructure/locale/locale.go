// Package locale picks the display language (Bengali or English) for a
// request and normalizes Unicode text received from clients.
package locale

import (
	"context"
	"strings"

	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Default is used when the client expresses no usable preference
const Default = valueobject.LangEnglish

var (
	supported = []language.Tag{language.English, language.Bengali}
	matcher   = language.NewMatcher(supported)
	lower     = cases.Lower(language.Und)
)

type ctxKey struct{}

// Match resolves an explicit lang value (query parameter) or an
// Accept-Language header to "en" or "bn". The explicit value wins.
func Match(explicit, acceptLanguage string) string {
	if lang, ok := parseExplicit(explicit); ok {
		return lang
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	return code(supported[index])
}

func parseExplicit(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	tag, err := language.Parse(v)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case valueobject.LangBengali:
		return valueobject.LangBengali, true
	case valueobject.LangEnglish:
		return valueobject.LangEnglish, true
	}
	return "", false
}

func code(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// WithLanguage stores the resolved language on ctx
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// FromContext returns the language stored on ctx, or Default
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return Default
	}
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return Default
}

// Normalize trims s and converts it to NFC so Bengali text typed with
// decomposed vowel signs compares equal to the stored form.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// FoldSearch prepares a search term: NFC normalized and lower-cased
func FoldSearch(s string) string {
	return lower.String(Normalize(s))
}
