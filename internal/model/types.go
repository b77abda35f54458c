// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/tapdrill/internal/finger"
)

// Config defines practice settings.
type Config struct {
	Mode     Mode
	Length   PassageLength
	Storage  string
	WordList string
}

// Storage backends for session history.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// ModeKind discriminates the Mode variants.
type ModeKind int

// Mode variants.
const (
	KindNormal ModeKind = iota
	KindWeakLetter
	KindFingerDrill
)

// Mode selects the passage generation strategy. Finger is only meaningful for
// KindFingerDrill.
type Mode struct {
	Kind   ModeKind
	Finger finger.Finger
}

// Normal practices common English words.
func Normal() Mode { return Mode{Kind: KindNormal} }

// WeakLetter practices words containing historically weak characters.
func WeakLetter() Mode { return Mode{Kind: KindWeakLetter} }

// FingerDrill practices patterns built from one finger's keys.
func FingerDrill(f finger.Finger) Mode { return Mode{Kind: KindFingerDrill, Finger: f} }

// Name returns the display name of the mode.
func (m Mode) Name() string {
	switch m.Kind {
	case KindWeakLetter:
		return "Weak Letters"
	case KindFingerDrill:
		return m.Finger.Name() + " Drill"
	default:
		return "Normal"
	}
}

func (m Mode) String() string {
	return m.Name()
}

// Slug returns the flag/config identifier for the mode.
func (m Mode) Slug() string {
	switch m.Kind {
	case KindWeakLetter:
		return "weak"
	case KindFingerDrill:
		return m.Finger.Slug()
	default:
		return "normal"
	}
}

// Next cycles Normal -> WeakLetter -> each finger drill -> Normal.
func (m Mode) Next() Mode {
	switch m.Kind {
	case KindNormal:
		return WeakLetter()
	case KindWeakLetter:
		return FingerDrill(finger.LeftPinky)
	default:
		fingers := finger.All()
		idx := fingerIndex(m.Finger)
		if idx+1 < len(fingers) {
			return FingerDrill(fingers[idx+1])
		}
		return Normal()
	}
}

// Prev is the inverse of Next.
func (m Mode) Prev() Mode {
	switch m.Kind {
	case KindNormal:
		fingers := finger.All()
		return FingerDrill(fingers[len(fingers)-1])
	case KindWeakLetter:
		return Normal()
	default:
		fingers := finger.All()
		idx := fingerIndex(m.Finger)
		if idx > 0 {
			return FingerDrill(fingers[idx-1])
		}
		return WeakLetter()
	}
}

func fingerIndex(f finger.Finger) int {
	for i, candidate := range finger.All() {
		if candidate == f {
			return i
		}
	}
	return 0
}

// ParseMode accepts "normal", "weak" or a finger slug such as "left-pinky".
func ParseMode(s string) (Mode, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "", "normal":
		return Normal(), nil
	case "weak", "weak-letter", "weak-letters":
		return WeakLetter(), nil
	}
	f, err := finger.ParseFinger(strings.TrimSuffix(norm, "-drill"))
	if err != nil {
		return Mode{}, fmt.Errorf("unknown mode %q", s)
	}
	return FingerDrill(f), nil
}

// PassageLength is the word-count target of a passage.
type PassageLength int

// Passage lengths.
const (
	Short  PassageLength = 10
	Medium PassageLength = 25
	Long   PassageLength = 50
)

// DefaultLength is used when nothing is configured.
const DefaultLength = Medium

// WordCount returns the number of words or patterns in the passage.
func (l PassageLength) WordCount() int {
	return int(l)
}

// Next cycles Short -> Medium -> Long -> Short.
func (l PassageLength) Next() PassageLength {
	switch l {
	case Short:
		return Medium
	case Medium:
		return Long
	default:
		return Short
	}
}

// Name returns the display name.
func (l PassageLength) Name() string {
	switch l {
	case Short:
		return "Short"
	case Long:
		return "Long"
	case Medium:
		return "Medium"
	default:
		return fmt.Sprintf("%d words", int(l))
	}
}

func (l PassageLength) String() string {
	return l.Name()
}

// ParsePassageLength accepts "short", "medium" or "long".
func ParsePassageLength(s string) (PassageLength, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short":
		return Short, nil
	case "", "medium":
		return Medium, nil
	case "long":
		return Long, nil
	default:
		return 0, fmt.Errorf("unknown passage length %q", s)
	}
}
