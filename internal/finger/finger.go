// Package finger maps hand fingers to the keys they strike on a US-QWERTY layout.
package finger

import (
	"fmt"
	"strings"
	"unicode"
)

// Finger identifies one of the eight typing fingers (thumbs excluded).
type Finger int

// Fingers in left-to-right keyboard order.
const (
	LeftPinky Finger = iota
	LeftRing
	LeftMiddle
	LeftIndex
	RightIndex
	RightMiddle
	RightRing
	RightPinky
)

var names = [...]string{
	LeftPinky:   "Left Pinky",
	LeftRing:    "Left Ring",
	LeftMiddle:  "Left Middle",
	LeftIndex:   "Left Index",
	RightIndex:  "Right Index",
	RightMiddle: "Right Middle",
	RightRing:   "Right Ring",
	RightPinky:  "Right Pinky",
}

var keys = [...][]rune{
	LeftPinky:   {'`', '1', 'q', 'a', 'z'},
	LeftRing:    {'2', 'w', 's', 'x'},
	LeftMiddle:  {'3', 'e', 'd', 'c'},
	LeftIndex:   {'4', '5', 'r', 't', 'f', 'g', 'v', 'b'},
	RightIndex:  {'6', '7', 'y', 'u', 'h', 'j', 'n', 'm'},
	RightMiddle: {'8', 'i', 'k', ','},
	RightRing:   {'9', 'o', 'l', '.'},
	RightPinky:  {'0', '-', '=', 'p', '[', ']', ';', '\'', '/', '\\'},
}

var owner = buildOwner()

func buildOwner() map[rune]Finger {
	out := map[rune]Finger{}
	for _, f := range All() {
		for _, r := range keys[f] {
			out[r] = f
		}
	}
	return out
}

// All returns every finger in left-to-right order.
func All() []Finger {
	return []Finger{LeftPinky, LeftRing, LeftMiddle, LeftIndex, RightIndex, RightMiddle, RightRing, RightPinky}
}

// Valid reports whether f is one of the eight defined fingers.
func (f Finger) Valid() bool {
	return f >= LeftPinky && f <= RightPinky
}

// Name returns the human-readable finger name.
func (f Finger) Name() string {
	if !f.Valid() {
		return fmt.Sprintf("Finger(%d)", int(f))
	}
	return names[f]
}

func (f Finger) String() string {
	return f.Name()
}

// Slug returns the kebab-case identifier used by flags and config ("left-pinky").
func (f Finger) Slug() string {
	return strings.ReplaceAll(strings.ToLower(f.Name()), " ", "-")
}

// Keys returns the keys assigned to f, in keyboard order. The slice is a copy.
func Keys(f Finger) []rune {
	if !f.Valid() {
		return nil
	}
	out := make([]rune, len(keys[f]))
	copy(out, keys[f])
	return out
}

// ForKey returns the finger responsible for r. Letters match case-insensitively.
func ForKey(r rune) (Finger, bool) {
	f, ok := owner[unicode.ToLower(r)]
	return f, ok
}

// ParseFinger resolves a slug ("left-pinky") or display name ("Left Pinky").
func ParseFinger(s string) (Finger, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
	for _, f := range All() {
		if f.Slug() == norm {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown finger %q", s)
}
