package middleware

import (
	"github.com/giftshop/backend/internal/infrastructure/locale"
	"github.com/giftshop/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
)

// LocaleKey is the gin context key holding the negotiated language
const LocaleKey = "lang"

// Locale negotiates the response language from ?lang= or Accept-Language
// and stores it on both the gin and the request context.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := locale.Match(c.Query("lang"), c.GetHeader("Accept-Language"))

		ctx := locale.WithLanguage(c.Request.Context(), lang)
		ctx = logger.WithLocale(ctx, lang)
		c.Request = c.Request.WithContext(ctx)
		c.Set(LocaleKey, lang)
		c.Header("Content-Language", lang)

		c.Next()
	}
}

// GetLocale returns the language chosen by Locale, or the default
func GetLocale(c *gin.Context) string {
	if lang := c.GetString(LocaleKey); lang != "" {
		return lang
	}
	return locale.FromContext(c.Request.Context())
}
