package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopflow/internal/access"
	"shopflow/internal/apperr"
	"shopflow/internal/model"
	"shopflow/internal/money"
	"shopflow/internal/prefs"
	"shopflow/internal/service"
	"shopflow/pkg/jwt"
)

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer   abc"))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken("Bearer"))
	assert.Empty(t, BearerToken(""))
}

func TestPreferences(t *testing.T) {
	app := fiber.New()
	app.Use(Preferences(prefs.Default))
	var got prefs.Preferences
	app.Get("/", func(c *fiber.Ctx) error {
		got = prefs.From(c.UserContext())
		return nil
	})

	cases := []struct {
		name   string
		target string
		header map[string]string
		cookie *http.Cookie
		want   prefs.Preferences
	}{
		{"defaults", "/", nil, nil, prefs.Default},
		{"header", "/", map[string]string{HeaderCurrency: "eur", HeaderLocale: "en"}, nil,
			prefs.Preferences{Currency: money.EUR, Locale: money.LocaleEN, Theme: prefs.ThemeDark}},
		{"query", "/?currency=EUR&locale=en-US", nil, nil,
			prefs.Preferences{Currency: money.EUR, Locale: money.LocaleEN, Theme: prefs.ThemeDark}},
		{"accept language", "/", map[string]string{fiber.HeaderAcceptLanguage: "en-GB,en;q=0.8"}, nil,
			prefs.Preferences{Currency: money.XOF, Locale: money.LocaleEN, Theme: prefs.ThemeDark}},
		{"theme cookie", "/", nil, &http.Cookie{Name: CookieTheme, Value: "light"},
			prefs.Preferences{Currency: money.XOF, Locale: money.LocaleFR, Theme: prefs.ThemeLight}},
		{"unsupported values ignored", "/?currency=USD&locale=de", nil, nil, prefs.Default},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			_, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type stubValidator struct {
	user *model.User
	err  error
}

func (s stubValidator) ValidateToken(context.Context, string) (*model.User, *jwt.Claims, error) {
	return s.user, nil, s.err
}

func newGate(v TokenValidator, capability model.Capability) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperr.HTTPStatus(apperr.KindOf(err)))
		},
	})
	app.Get("/", RequireAuth(v, "token"), RequireCapability(access.DefaultPolicy(), capability), func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		return c.SendString(actor.Email)
	})
	return app
}

func TestRequireAuthAndCapability(t *testing.T) {
	staff := &model.User{BaseModel: model.BaseModel{ID: 7}, Email: "staff@shop.bf", Role: model.RoleUser}

	t.Run("no token", func(t *testing.T) {
		resp, err := newGate(stubValidator{user: staff}, model.CapProductView).Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer x")
		resp, err := newGate(stubValidator{err: service.ErrInvalidToken}, model.CapProductView).Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("cookie token with capability", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "x"})
		resp, err := newGate(stubValidator{user: staff}, model.CapProductView).Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing capability", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer x")
		resp, err := newGate(stubValidator{user: staff}, model.CapUserManage).Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
