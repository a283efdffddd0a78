package input

import "fmt"

// KeyKind identifies a logical key event.
type KeyKind int

const (
	KeyChar KeyKind = iota
	KeyUp
	KeyDown
	KeyEscape
	KeyInterrupt
)

// String returns a human-readable label for the key kind.
func (k KeyKind) String() string {
	switch k {
	case KeyChar:
		return "char"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEscape:
		return "esc"
	case KeyInterrupt:
		return "ctrl+c"
	default:
		return "unknown"
	}
}

// Key is a decoded keyboard event. Rune is only meaningful for KeyChar.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Up returns an arrow-up key.
func Up() Key { return Key{Kind: KeyUp} }

// Down returns an arrow-down key.
func Down() Key { return Key{Kind: KeyDown} }

// Escape returns a bare escape key.
func Escape() Key { return Key{Kind: KeyEscape} }

// Interrupt returns a Ctrl+C key.
func Interrupt() Key { return Key{Kind: KeyInterrupt} }

// Char returns a printable character key.
func Char(r rune) Key { return Key{Kind: KeyChar, Rune: r} }

// Is reports whether k is a character key matching any of runes.
func (k Key) Is(runes ...rune) bool {
	if k.Kind != KeyChar {
		return false
	}
	for _, r := range runes {
		if k.Rune == r {
			return true
		}
	}
	return false
}

// String returns the key in the same notation used by the help footer.
func (k Key) String() string {
	if k.Kind == KeyChar {
		return fmt.Sprintf("%c", k.Rune)
	}
	return k.Kind.String()
}
