// Package namefold compares file names with optional ASCII-only case folding.
package namefold

// Mode selects how two names are compared.
type Mode int

const (
	ModeExact Mode = iota
	ModeFold
)

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeFold:
		return "fold"
	default:
		return "unknown"
	}
}

// ModeFor returns ModeFold when caseInsensitive is set.
func ModeFor(caseInsensitive bool) Mode {
	if caseInsensitive {
		return ModeFold
	}
	return ModeExact
}

// Equal reports whether a and b name the same file under mode.
// Folding lowercases A-Z only; every other byte must match as-is.
func Equal(a, b string, mode Mode) bool {
	if len(a) != len(b) {
		return false
	}
	if mode != ModeFold {
		return a == b
	}
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

// Fold returns s with A-Z lowercased.
func Fold(s string) string {
	buf := []byte(s)
	for i := range buf {
		buf[i] = lower(buf[i])
	}
	return string(buf)
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
