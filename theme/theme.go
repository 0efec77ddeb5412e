// Package theme resolves a stored theme preference to the presentation
// attribute understood by the web frontend.
package theme

import (
	"github.com/vaaskel/vaaskel/database"
)

// Attribute values set on the document root.
const (
	Dark  = "dark"
	Light = "light"
)

// ColorSchemeHintHeader is the client hint carrying the OS-level color
// scheme, sent by browsers that support it.
const ColorSchemeHintHeader = "Sec-CH-Prefers-Color-Scheme"

// Resolve maps a theme preference to a presentation attribute. DARK and
// LIGHT are applied as-is; SYSTEM defers to the client's color-scheme
// hint and falls back to dark when the client does not send one.
func Resolve(pref database.ThemePreference, colorSchemeHint string) string {
	switch pref {
	case database.ThemeDark:
		return Dark
	case database.ThemeLight:
		return Light
	default:
		if colorSchemeHint == Light {
			return Light
		}
		return Dark
	}
}
