// Package prefs carries the caller's display preferences through a request.
package prefs

import (
	"context"
	"strings"

	"shopflow/internal/money"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type Preferences struct {
	Currency money.Currency `json:"currency"`
	Locale   money.Locale   `json:"locale"`
	Theme    string         `json:"theme"`
}

// Display is the money display this request asked for.
func (p Preferences) Display() money.Display {
	return money.Display{Currency: p.Currency, Locale: p.Locale}
}

// Default is used when nothing is attached to the context.
var Default = Preferences{Currency: money.XOF, Locale: money.LocaleFR, Theme: ThemeDark}

type ctxKey struct{}

func With(ctx context.Context, p Preferences) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func From(ctx context.Context) Preferences {
	if p, ok := ctx.Value(ctxKey{}).(Preferences); ok {
		return p
	}
	return Default
}

// Resolve overlays the raw request values on base, ignoring anything unsupported.
func Resolve(base Preferences, currency, locale, theme string) Preferences {
	p := base
	if currency != "" {
		if c, err := money.ParseCurrency(currency); err == nil {
			p.Currency = c
		}
	}
	if locale != "" {
		if l, ok := money.ParseLocale(locale); ok {
			p.Locale = l
		}
	}
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case ThemeDark:
		p.Theme = ThemeDark
	case ThemeLight:
		p.Theme = ThemeLight
	}
	return p
}
