// Package keycatalogue provides the fixed, process-wide mapping between
// human-readable key names and platform scan codes (component A).
package keycatalogue

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ScanCode is a platform key code. Extended keys (arrows, navigation) carry
// the 0xE0 prefix in the high byte, matching IBM PC/AT Set 1 scan codes.
type ScanCode uint16

const extendedPrefix ScanCode = 0xE000

var (
	once   sync.Once
	byName map[string]ScanCode
	byCode map[ScanCode]string
	names  []string
)

func build() {
	byName = make(map[string]ScanCode, 128)
	byCode = make(map[ScanCode]string, 128)

	add := func(name string, code ScanCode) {
		byName[name] = code
		byCode[code] = name
	}

	// Letters, Set 1 scan codes.
	letterCodes := map[byte]ScanCode{
		'a': 0x1E, 'b': 0x30, 'c': 0x2E, 'd': 0x20, 'e': 0x12, 'f': 0x21,
		'g': 0x22, 'h': 0x23, 'i': 0x17, 'j': 0x24, 'k': 0x25, 'l': 0x26,
		'm': 0x32, 'n': 0x31, 'o': 0x18, 'p': 0x19, 'q': 0x10, 'r': 0x13,
		's': 0x1F, 't': 0x14, 'u': 0x16, 'v': 0x2F, 'w': 0x11, 'x': 0x2D,
		'y': 0x15, 'z': 0x2C,
	}
	for ch, code := range letterCodes {
		add(string(ch), code)
	}

	// Digit row.
	digitCodes := map[byte]ScanCode{
		'1': 0x02, '2': 0x03, '3': 0x04, '4': 0x05, '5': 0x06,
		'6': 0x07, '7': 0x08, '8': 0x09, '9': 0x0A, '0': 0x0B,
	}
	for ch, code := range digitCodes {
		add(string(ch), code)
	}

	// Punctuation.
	punctCodes := map[string]ScanCode{
		"minus": 0x0C, "equal": 0x0D, "lbracket": 0x1A, "rbracket": 0x1B,
		"semicolon": 0x27, "quote": 0x28, "backtick": 0x29, "backslash": 0x2B,
		"comma": 0x33, "period": 0x34, "slash": 0x35,
	}
	for name, code := range punctCodes {
		add(name, code)
	}

	// Function keys F1-F24 (F13-F24 as extended codes per Set 1 convention).
	fnBase := []ScanCode{0x3B, 0x3C, 0x3D, 0x3E, 0x3F, 0x40, 0x41, 0x42, 0x43, 0x44, 0x57, 0x58}
	for i, code := range fnBase {
		add(fmt.Sprintf("f%d", i+1), code)
	}
	fnExtBase := []ScanCode{0x64, 0x65, 0x66, 0x67, 0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x76}
	for i, code := range fnExtBase {
		add(fmt.Sprintf("f%d", i+13), extendedPrefix|code)
	}

	// Control/whitespace.
	add("enter", 0x1C)
	add("space", 0x39)
	add("tab", 0x0F)
	add("escape", 0x01)
	add("backspace", 0x0E)
	add("capslock", 0x3A)

	// Modifiers.
	add("shift", 0x2A)
	add("rshift", 0x36)
	add("ctrl", 0x1D)
	add("rctrl", extendedPrefix|0x1D)
	add("alt", 0x38)
	add("ralt", extendedPrefix|0x38)
	add("meta", extendedPrefix|0x5B)
	add("rmeta", extendedPrefix|0x5C)

	// Navigation cluster (extended codes).
	add("insert", extendedPrefix|0x52)
	add("delete", extendedPrefix|0x53)
	add("home", extendedPrefix|0x47)
	add("end", extendedPrefix|0x4F)
	add("pageup", extendedPrefix|0x49)
	add("pagedown", extendedPrefix|0x51)

	// Arrows are resolved through a platform-specific translation function;
	// other entries above are static across platforms.
	for _, dir := range []string{"up", "down", "left", "right"} {
		add(dir, arrowScanCode(dir))
	}

	names = make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
}

func ensureBuilt() {
	once.Do(build)
}

// CodeOf resolves a key name to its scan code. Returns a fatal-shaped error
// with up to 3 fuzzy suggestions when the name is unknown.
func CodeOf(name string) (ScanCode, error) {
	ensureBuilt()
	code, ok := byName[name]
	if !ok {
		return 0, unknownNameError(name)
	}
	return code, nil
}

// NameOf resolves a scan code back to its canonical key name.
func NameOf(code ScanCode) (string, error) {
	ensureBuilt()
	name, ok := byCode[code]
	if !ok {
		return "", fmt.Errorf("keycatalogue: unknown scan code %#04x", uint16(code))
	}
	return name, nil
}

// Names returns every known key name, sorted, for diagnostics and tests.
func Names() []string {
	ensureBuilt()
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func unknownNameError(name string) error {
	suggestions := fuzzy.RankFindFold(name, Names())
	sort.Sort(suggestions)
	msg := fmt.Sprintf("keycatalogue: unknown key name %q", name)
	if n := len(suggestions); n > 0 {
		limit := 3
		if n < limit {
			limit = n
		}
		msg += " (did you mean:"
		for i := 0; i < limit; i++ {
			msg += " " + suggestions[i].Target
		}
		msg += ")"
	}
	return fmt.Errorf("%s", msg)
}
