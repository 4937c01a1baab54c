package ext

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidShortcut reports a shortcut string that could not be parsed.
var ErrInvalidShortcut = errors.New("invalid shortcut")

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

// Shortcut is a key plus an exact modifier set. The zero value means none.
type Shortcut struct {
	Mods Modifier
	Key  string
}

// ParseShortcut accepts the key names Bubble Tea reports ("ctrl+k",
// "alt+enter", "shift+tab") as well as "cmd" and "opt" aliases. A single
// upper-case letter is read as shift plus the lower-case letter.
func ParseShortcut(s string) (Shortcut, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Shortcut{}, fmt.Errorf("%w: empty", ErrInvalidShortcut)
	}
	if raw == "+" {
		return Shortcut{Key: "+"}, nil
	}
	var sc Shortcut
	key := raw
	// a trailing "+" is the plus key itself, e.g. "ctrl++"
	if strings.HasSuffix(raw, "++") {
		key = "+"
		raw = strings.TrimSuffix(raw, "+")
	}
	parts := strings.Split(raw, "+")
	if key != "+" {
		key = parts[len(parts)-1]
	}
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control", "cmd":
			sc.Mods |= ModCtrl
		case "alt", "opt", "option", "meta":
			sc.Mods |= ModAlt
		case "shift":
			sc.Mods |= ModShift
		default:
			return Shortcut{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidShortcut, p, s)
		}
	}
	if key == "" {
		return Shortcut{}, fmt.Errorf("%w: missing key in %q", ErrInvalidShortcut, s)
	}
	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		if unicode.IsUpper(r) {
			sc.Mods |= ModShift
			key = string(unicode.ToLower(r))
		}
	} else {
		key = strings.ToLower(key)
	}
	sc.Key = key
	return sc, nil
}

// MustShortcut is ParseShortcut for literals known to be valid.
func MustShortcut(s string) Shortcut {
	sc, err := ParseShortcut(s)
	if err != nil {
		panic(err)
	}
	return sc
}

// IsZero reports whether no shortcut is bound.
func (s Shortcut) IsZero() bool {
	return s.Key == ""
}

// Matches compares against a Bubble Tea key string using exact modifier-set
// and key equality.
func (s Shortcut) Matches(key string) bool {
	if s.IsZero() {
		return false
	}
	other, err := ParseShortcut(key)
	if err != nil {
		return false
	}
	return other == s
}

func (s Shortcut) String() string {
	if s.IsZero() {
		return ""
	}
	var b strings.Builder
	if s.Mods&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if s.Mods&ModAlt != 0 {
		b.WriteString("alt+")
	}
	if s.Mods&ModShift != 0 {
		b.WriteString("shift+")
	}
	b.WriteString(s.Key)
	return b.String()
}
