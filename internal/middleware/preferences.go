package middleware

import (
	"github.com/gofiber/fiber/v2"

	"shopflow/internal/prefs"
)

const (
	HeaderCurrency = "X-Currency"
	HeaderLocale   = "X-Locale"

	CookieCurrency = "currency"
	CookieLocale   = "locale"
	CookieTheme    = "theme"
)

// Preferences attaches the caller's display preferences to the request
// context. Header beats query beats cookie; unsupported values are ignored.
func Preferences(defaults prefs.Preferences) fiber.Handler {
	return func(c *fiber.Ctx) error {
		currency := firstNonEmpty(c.Get(HeaderCurrency), c.Query("currency"), c.Cookies(CookieCurrency))
		locale := firstNonEmpty(c.Get(HeaderLocale), c.Query("locale"), c.Cookies(CookieLocale), c.Get(fiber.HeaderAcceptLanguage))

		p := prefs.Resolve(defaults, currency, locale, c.Cookies(CookieTheme))
		c.SetUserContext(prefs.With(c.UserContext(), p))
		return c.Next()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
