package valueobject

import "strings"

// Supported display languages
const (
	LangEnglish = "en"
	LangBengali = "bn"
)

// LocalizedText holds the English and Bengali renditions of a display string
type LocalizedText struct {
	En string `json:"en"`
	Bn string `json:"bn"`
}

// NewLocalizedText trims both renditions
func NewLocalizedText(en, bn string) LocalizedText {
	return LocalizedText{En: strings.TrimSpace(en), Bn: strings.TrimSpace(bn)}
}

// In returns the rendition for lang, falling back to the other one when empty
func (t LocalizedText) In(lang string) string {
	if lang == LangBengali {
		if t.Bn != "" {
			return t.Bn
		}
		return t.En
	}
	if t.En != "" {
		return t.En
	}
	return t.Bn
}

// IsEmpty returns true when neither rendition is set
func (t LocalizedText) IsEmpty() bool {
	return t.En == "" && t.Bn == ""
}
