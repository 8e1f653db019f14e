package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizedText_In(t *testing.T) {
	both := NewLocalizedText(" Tea Mug ", "চায়ের মগ")
	assert.Equal(t, "Tea Mug", both.In(LangEnglish))
	assert.Equal(t, "চায়ের মগ", both.In(LangBengali))
	assert.Equal(t, "Tea Mug", both.In("fr"))

	enOnly := NewLocalizedText("Candle", "")
	assert.Equal(t, "Candle", enOnly.In(LangBengali))

	bnOnly := NewLocalizedText("", "মোমবাতি")
	assert.Equal(t, "মোমবাতি", bnOnly.In(LangEnglish))

	assert.True(t, LocalizedText{}.IsEmpty())
	assert.False(t, bnOnly.IsEmpty())
}
