package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaaskel/vaaskel/database"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		pref     database.ThemePreference
		hint     string
		expected string
	}{
		{name: "dark preference ignores hint", pref: database.ThemeDark, hint: "light", expected: Dark},
		{name: "light preference ignores hint", pref: database.ThemeLight, hint: "dark", expected: Light},
		{name: "system follows light hint", pref: database.ThemeSystem, hint: "light", expected: Light},
		{name: "system follows dark hint", pref: database.ThemeSystem, hint: "dark", expected: Dark},
		{name: "system without hint falls back to dark", pref: database.ThemeSystem, hint: "", expected: Dark},
		{name: "unknown preference behaves like system", pref: "NEON", hint: "", expected: Dark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.pref, tt.hint))
		})
	}
}
